package daylight

import (
	"time"

	"github.com/aurinko-app/daycal/internal/suncalc"
)

// Fixed offsets in hours around the approximate sunrise/sunset that bound
// each twilight band. This is a deliberately simplified partition for
// visualization; the precise per-coordinate twilight times live in suncalc.
const (
	offsetAstronomical = 2.5
	offsetNautical     = 2.0
	offsetCivil        = 1.5
	offsetSunrise      = 0.5
)

// Fraction of a period on each edge that cross-fades toward the neighbor.
const blendFraction = 0.2

// Model maps hours of a day to daylight phases and colors for an observer
// coordinate. All methods are pure functions of their arguments; the model
// holds no mutable state and is safe for high-frequency calls.
type Model struct {
	observer suncalc.GeoCoordinate
}

// NewModel creates a daylight color model for the given observer coordinate.
func NewModel(observer suncalc.GeoCoordinate) *Model {
	return &Model{observer: observer}
}

// PeriodsForDay partitions the date into 13 contiguous periods covering
// [0, 24): the 12 named phases with night split into a pre-dawn and a
// post-dusk segment.
func (m *Model) PeriodsForDay(date time.Time) []Period {
	day := date.YearDay()
	rise := suncalc.ApproxSunriseHour(day, m.observer.Latitude)
	set := suncalc.ApproxSunsetHour(day, m.observer.Latitude)

	bounds := []struct {
		phase Phase
		end   float64
	}{
		{PhaseNight, rise - offsetAstronomical},
		{PhaseAstronomicalTwilight, rise - offsetNautical},
		{PhaseNauticalTwilight, rise - offsetCivil},
		{PhaseCivilTwilight, rise - offsetSunrise},
		{PhaseSunrise, rise + offsetSunrise},
		{PhaseGoldenHour, rise + offsetCivil},
		{PhaseDaylight, set - offsetCivil},
		{PhaseGoldenHourEvening, set - offsetSunrise},
		{PhaseSunset, set + offsetSunrise},
		{PhaseCivilTwilightEvening, set + offsetCivil},
		{PhaseNauticalTwilightEvening, set + offsetNautical},
		{PhaseAstronomicalTwilightEvening, set + offsetAstronomical},
		{PhaseNight, 24},
	}

	periods := make([]Period, 0, len(bounds))
	start := 0.0
	for _, b := range bounds {
		periods = append(periods, Period{
			Phase:     b.phase,
			StartHour: start,
			EndHour:   b.end,
			Color:     phaseColor(b.phase),
		})
		start = b.end
	}
	return periods
}

// PeriodForHour returns the period containing the given hour of the date.
func (m *Model) PeriodForHour(hour float64, date time.Time) Period {
	periods := m.PeriodsForDay(date)
	for _, p := range periods {
		if p.Contains(hour) {
			return p
		}
	}
	// hour == 24 or out of range falls into the final night segment
	return periods[len(periods)-1]
}

// ColorForHour returns the blended color for an hour of day in [0, 24).
// Within the daylight phase the color lightens toward midday on a
// triangular ramp. Other phases cross-fade their first and last 20% toward
// the adjoining period so adjacent periods meet at a shared boundary color.
// The first and last periods of the day do not blend across midnight.
func (m *Model) ColorForHour(hour float64, date time.Time) RGBA {
	periods := m.PeriodsForDay(date)

	idx := len(periods) - 1
	for i, p := range periods {
		if p.Contains(hour) {
			idx = i
			break
		}
	}

	p := periods[idx]
	progress := p.progress(hour)

	if p.Phase == PhaseDaylight {
		// Triangular ramp peaking at midday
		factor := 1 - 2*abs(progress-0.5)
		return colorDaylight.Lerp(daylightZenith, factor)
	}

	switch {
	case progress < blendFraction && idx > 0:
		edge := boundaryColor(periods[idx-1], p)
		return edge.Lerp(p.Color, progress/blendFraction)
	case progress > 1-blendFraction && idx < len(periods)-1:
		edge := boundaryColor(p, periods[idx+1])
		return p.Color.Lerp(edge, (progress-(1-blendFraction))/blendFraction)
	default:
		return p.Color
	}
}

// boundaryColor is the color both neighbors converge to at their shared
// boundary. A daylight neighbor contributes its edge value, which equals
// the base daylight color since the triangular ramp is zero at the edges.
func boundaryColor(before, after Period) RGBA {
	if before.Phase == PhaseDaylight {
		return colorDaylight
	}
	if after.Phase == PhaseDaylight {
		return colorDaylight
	}
	return midpoint(before.Color, after.Color)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
