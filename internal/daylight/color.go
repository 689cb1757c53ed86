package daylight

// RGBA is a color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Lerp interpolates per channel from c toward other. The factor is clamped
// to [0, 1].
func (c RGBA) Lerp(other RGBA, factor float64) RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return RGBA{
		R: c.R + (other.R-c.R)*factor,
		G: c.G + (other.G-c.G)*factor,
		B: c.B + (other.B-c.B)*factor,
		A: c.A + (other.A-c.A)*factor,
	}
}

// midpoint is the halfway blend of two colors, used at period boundaries.
func midpoint(a, b RGBA) RGBA {
	return a.Lerp(b, 0.5)
}

// Display colors per phase. Daylight additionally lightens toward
// daylightZenith at midday.
var (
	colorNight                = RGBA{R: 0.05, G: 0.05, B: 0.15, A: 1}
	colorAstronomicalTwilight = RGBA{R: 0.10, G: 0.10, B: 0.26, A: 1}
	colorNauticalTwilight     = RGBA{R: 0.16, G: 0.18, B: 0.36, A: 1}
	colorCivilTwilight        = RGBA{R: 0.30, G: 0.31, B: 0.52, A: 1}
	colorSunrise              = RGBA{R: 0.95, G: 0.60, B: 0.30, A: 1}
	colorGoldenHour           = RGBA{R: 0.98, G: 0.76, B: 0.40, A: 1}
	colorDaylight             = RGBA{R: 0.35, G: 0.65, B: 0.95, A: 1}
	daylightZenith            = RGBA{R: 0.56, G: 0.80, B: 1.00, A: 1}
	colorGoldenHourEvening    = RGBA{R: 0.96, G: 0.66, B: 0.36, A: 1}
	colorSunset               = RGBA{R: 0.91, G: 0.45, B: 0.30, A: 1}
	colorCivilTwilightEve     = RGBA{R: 0.44, G: 0.30, B: 0.52, A: 1}
	colorNauticalTwilightEve  = RGBA{R: 0.24, G: 0.20, B: 0.40, A: 1}
	colorAstroTwilightEve     = RGBA{R: 0.12, G: 0.11, B: 0.28, A: 1}
)

// phaseColor returns the stable display color for a phase.
func phaseColor(p Phase) RGBA {
	switch p {
	case PhaseNight:
		return colorNight
	case PhaseAstronomicalTwilight:
		return colorAstronomicalTwilight
	case PhaseNauticalTwilight:
		return colorNauticalTwilight
	case PhaseCivilTwilight:
		return colorCivilTwilight
	case PhaseSunrise:
		return colorSunrise
	case PhaseGoldenHour:
		return colorGoldenHour
	case PhaseDaylight:
		return colorDaylight
	case PhaseSunset:
		return colorSunset
	case PhaseGoldenHourEvening:
		return colorGoldenHourEvening
	case PhaseCivilTwilightEvening:
		return colorCivilTwilightEve
	case PhaseNauticalTwilightEvening:
		return colorNauticalTwilightEve
	case PhaseAstronomicalTwilightEvening:
		return colorAstroTwilightEve
	default:
		return colorNight
	}
}
