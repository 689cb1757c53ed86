// approx.go: simplified sunrise/sunset estimates for the coarse daylight
// visualization path. These skip the equation-of-time and longitude
// corrections and clamp the result to a plausible band, which the precise
// EventTime path never does. Keep the two paths separate.
package suncalc

import "math"

const (
	approxSunriseMin = 5.0
	approxSunriseMax = 9.0
	approxSunsetMin  = 15.0
	approxSunsetMax  = 21.0
)

// ApproxSunriseHour returns a cheap sunrise estimate as an hour of day,
// clamped to [5, 9]. Under polar day the clamp floor applies, under polar
// night the clamp ceiling.
func ApproxSunriseHour(dayOfYear int, latitudeDeg float64) float64 {
	declination := SolarDeclination(dayOfYear)
	hourAngle, ok := HourAngleForElevation(latitudeDeg, declination, ElevationSunrise)
	if !ok {
		if sunAlwaysUp(latitudeDeg, declination) {
			return approxSunriseMin
		}
		return approxSunriseMax
	}
	return clamp(12-hourAngle/degreesPerHour, approxSunriseMin, approxSunriseMax)
}

// ApproxSunsetHour returns a cheap sunset estimate as an hour of day,
// clamped to [15, 21]. The clamp band mirrors ApproxSunriseHour around
// solar noon.
func ApproxSunsetHour(dayOfYear int, latitudeDeg float64) float64 {
	declination := SolarDeclination(dayOfYear)
	hourAngle, ok := HourAngleForElevation(latitudeDeg, declination, ElevationSunrise)
	if !ok {
		if sunAlwaysUp(latitudeDeg, declination) {
			return approxSunsetMax
		}
		return approxSunsetMin
	}
	return clamp(12+hourAngle/degreesPerHour, approxSunsetMin, approxSunsetMax)
}

// sunAlwaysUp reports whether the sun stays above the sunrise elevation
// for the whole day, the polar day case.
func sunAlwaysUp(latitudeDeg, declinationRad float64) bool {
	latRad := latitudeDeg * degToRad
	elevRad := ElevationSunrise * degToRad
	cosHA := (math.Sin(elevRad) - math.Sin(latRad)*math.Sin(declinationRad)) /
		(math.Cos(latRad) * math.Cos(declinationRad))
	return cosHA < -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
