// Package suncalc calculates solar event times such as sunrise, sunset and
// twilight boundaries for a date and geographic coordinate.
package suncalc

import (
	"time"

	"github.com/aurinko-app/daycal/internal/errors"
)

// Elevation thresholds in degrees for the named solar events. Sunrise and
// sunset use -0.83 to account for atmospheric refraction.
const (
	ElevationSunrise      = -0.83
	ElevationCivil        = -6.0
	ElevationNautical     = -12.0
	ElevationAstronomical = -18.0
)

// GeoCoordinate is an immutable geographic position in decimal degrees.
type GeoCoordinate struct {
	Latitude  float64
	Longitude float64
}

// Validate checks that the coordinate is within valid ranges.
func (c GeoCoordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return errors.Newf("latitude %.4f out of range [-90, 90]", c.Latitude).
			Component("suncalc").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return errors.Newf("longitude %.4f out of range [-180, 180]", c.Longitude).
			Component("suncalc").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// SunTime is an optional timestamp. Valid is false when the sun never
// reaches the required elevation at the observer's latitude on that date,
// as happens during polar day and polar night.
type SunTime struct {
	Time  time.Time
	Valid bool
}

// SolarEvent identifies one of the named solar events of a day.
type SolarEvent int

const (
	EventAstronomicalDawn SolarEvent = iota
	EventNauticalDawn
	EventCivilDawn
	EventSunrise
	EventSunset
	EventCivilDusk
	EventNauticalDusk
	EventAstronomicalDusk
)

// String returns a human-readable name for the solar event.
func (e SolarEvent) String() string {
	switch e {
	case EventAstronomicalDawn:
		return "Astronomical Dawn"
	case EventNauticalDawn:
		return "Nautical Dawn"
	case EventCivilDawn:
		return "Civil Dawn"
	case EventSunrise:
		return "Sunrise"
	case EventSunset:
		return "Sunset"
	case EventCivilDusk:
		return "Civil Dusk"
	case EventNauticalDusk:
		return "Nautical Dusk"
	case EventAstronomicalDusk:
		return "Astronomical Dusk"
	default:
		return "Unknown"
	}
}

// Elevation returns the target sun elevation in degrees for the event.
func (e SolarEvent) Elevation() float64 {
	switch e {
	case EventSunrise, EventSunset:
		return ElevationSunrise
	case EventCivilDawn, EventCivilDusk:
		return ElevationCivil
	case EventNauticalDawn, EventNauticalDusk:
		return ElevationNautical
	default:
		return ElevationAstronomical
	}
}

// Rising reports whether the event occurs on the rising side of solar noon.
func (e SolarEvent) Rising() bool {
	switch e {
	case EventAstronomicalDawn, EventNauticalDawn, EventCivilDawn, EventSunrise:
		return true
	default:
		return false
	}
}

// AllEvents lists the solar events in chronological order for a normal day.
func AllEvents() []SolarEvent {
	return []SolarEvent{
		EventAstronomicalDawn,
		EventNauticalDawn,
		EventCivilDawn,
		EventSunrise,
		EventSunset,
		EventCivilDusk,
		EventNauticalDusk,
		EventAstronomicalDusk,
	}
}

// SunEventTimes holds the calculated sun event times for one date.
// Each field may be absent under polar conditions.
type SunEventTimes struct {
	AstronomicalDawn SunTime
	NauticalDawn     SunTime
	CivilDawn        SunTime
	Sunrise          SunTime
	Sunset           SunTime
	CivilDusk        SunTime
	NauticalDusk     SunTime
	AstronomicalDusk SunTime
}

// Event returns the time of the given named event.
func (s *SunEventTimes) Event(e SolarEvent) SunTime {
	switch e {
	case EventAstronomicalDawn:
		return s.AstronomicalDawn
	case EventNauticalDawn:
		return s.NauticalDawn
	case EventCivilDawn:
		return s.CivilDawn
	case EventSunrise:
		return s.Sunrise
	case EventSunset:
		return s.Sunset
	case EventCivilDusk:
		return s.CivilDusk
	case EventNauticalDusk:
		return s.NauticalDusk
	case EventAstronomicalDusk:
		return s.AstronomicalDusk
	default:
		return SunTime{}
	}
}
