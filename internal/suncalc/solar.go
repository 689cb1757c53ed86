// solar.go: closed-form solar position math. All functions here are pure,
// perform no I/O and hold no state.
package suncalc

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// Degrees of hour angle per hour of solar time.
	degreesPerHour = 15.0
)

// SolarDeclination returns the sun's declination in radians for a day of
// the year in [1, 366].
func SolarDeclination(dayOfYear int) float64 {
	return 23.45 * degToRad * math.Sin(2*math.Pi*float64(dayOfYear-81)/365)
}

// EquationOfTimeMinutes returns the equation-of-time correction in minutes
// for a day of the year, the offset between apparent and mean solar time.
func EquationOfTimeMinutes(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 365
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// HourAngleForElevation solves the hour angle in degrees at which the sun
// reaches targetElevation degrees for the given latitude and declination.
// ok is false when the sun never reaches that elevation on that day at
// that latitude (polar day or polar night).
func HourAngleForElevation(latitudeDeg, declinationRad, targetElevationDeg float64) (hourAngleDeg float64, ok bool) {
	latRad := latitudeDeg * degToRad
	elevRad := targetElevationDeg * degToRad

	cosHA := (math.Sin(elevRad) - math.Sin(latRad)*math.Sin(declinationRad)) /
		(math.Cos(latRad) * math.Cos(declinationRad))
	if cosHA < -1 || cosHA > 1 {
		return 0, false
	}
	return math.Acos(cosHA) * radToDeg, true
}

// TimeForElevation returns the hour of day, relative to solar noon at 12.0,
// at which the sun crosses the given elevation. Rising events fall before
// noon, setting events after. ok is false under polar conditions.
func TimeForElevation(latitudeDeg, declinationRad, elevationDeg float64, rising bool) (hourOfDay float64, ok bool) {
	hourAngle, ok := HourAngleForElevation(latitudeDeg, declinationRad, elevationDeg)
	if !ok {
		return 0, false
	}
	delta := hourAngle / degreesPerHour
	if rising {
		return 12 - delta, true
	}
	return 12 + delta, true
}

// EventTime returns the clock time on date at which the sun crosses
// elevationDeg, corrected for the equation of time and the observer's
// longitude offset from the local meridian. ok is false when the elevation
// is never reached.
func EventTime(date time.Time, coord GeoCoordinate, elevationDeg float64, rising bool) (time.Time, bool) {
	dayOfYear := date.YearDay()
	declination := SolarDeclination(dayOfYear)

	solarHour, ok := TimeForElevation(coord.Latitude, declination, elevationDeg, rising)
	if !ok {
		return time.Time{}, false
	}

	// Apparent solar time to mean time, then shift by longitude: each 15
	// degrees east puts the sun one hour earlier on the clock.
	clockHour := solarHour - EquationOfTimeMinutes(dayOfYear)/60 - coord.Longitude/degreesPerHour

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(clockHour * float64(time.Hour))), true
}
