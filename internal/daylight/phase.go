// Package daylight partitions a day into named daylight phases and maps any
// hour of the day to a smoothly blended color for visualization. It builds on
// the approximate sunrise path of suncalc, not the precise event calculator.
package daylight

// Phase names a segment of the day's light cycle.
type Phase int

const (
	PhaseNight Phase = iota
	PhaseAstronomicalTwilight
	PhaseNauticalTwilight
	PhaseCivilTwilight
	PhaseSunrise
	PhaseGoldenHour
	PhaseDaylight
	PhaseSunset
	PhaseGoldenHourEvening
	PhaseCivilTwilightEvening
	PhaseNauticalTwilightEvening
	PhaseAstronomicalTwilightEvening
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNight:
		return "Night"
	case PhaseAstronomicalTwilight:
		return "Astronomical Twilight"
	case PhaseNauticalTwilight:
		return "Nautical Twilight"
	case PhaseCivilTwilight:
		return "Civil Twilight"
	case PhaseSunrise:
		return "Sunrise"
	case PhaseGoldenHour:
		return "Golden Hour"
	case PhaseDaylight:
		return "Daylight"
	case PhaseSunset:
		return "Sunset"
	case PhaseGoldenHourEvening:
		return "Evening Golden Hour"
	case PhaseCivilTwilightEvening:
		return "Evening Civil Twilight"
	case PhaseNauticalTwilightEvening:
		return "Evening Nautical Twilight"
	case PhaseAstronomicalTwilightEvening:
		return "Evening Astronomical Twilight"
	default:
		return "Unknown"
	}
}

// Period is one contiguous segment of the day with its display color.
// StartHour is inclusive, EndHour exclusive except for the final period of
// the day where EndHour is 24.
type Period struct {
	Phase     Phase
	StartHour float64
	EndHour   float64
	Color     RGBA
}

// Contains reports whether the hour falls inside the period.
func (p Period) Contains(hour float64) bool {
	return hour >= p.StartHour && hour < p.EndHour
}

// progress returns the position of hour within the period in [0, 1).
func (p Period) progress(hour float64) float64 {
	width := p.EndHour - p.StartHour
	if width <= 0 {
		return 0
	}
	return (hour - p.StartHour) / width
}
