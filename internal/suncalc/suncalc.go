// internal/suncalc/suncalc.go

package suncalc

import (
	"sync"
	"time"
)

// cacheEntry holds the cached sun event times for a given date
type cacheEntry struct {
	times SunEventTimes // Sun event times in local time
	date  time.Time     // Date for which the sun event times are cached
}

// SunCalc handles caching and calculation of sun event times
type SunCalc struct {
	cache    map[string]cacheEntry // Cache of sun event times for dates
	lock     sync.RWMutex          // Lock for cache access
	observer GeoCoordinate         // Observer for sun event calculations
}

// NewSunCalc creates a new SunCalc instance
func NewSunCalc(latitude, longitude float64) *SunCalc {
	return &SunCalc{
		cache:    make(map[string]cacheEntry),
		observer: GeoCoordinate{Latitude: latitude, Longitude: longitude},
	}
}

// Observer returns the coordinate this calculator was built for.
func (sc *SunCalc) Observer() GeoCoordinate {
	return sc.observer
}

// GetSunEventTimes returns the sun event times for a given date, using cache if available
func (sc *SunCalc) GetSunEventTimes(date time.Time) SunEventTimes {
	// Format the date as a string key for the cache
	dateKey := date.Format("2006-01-02")

	// Acquire a read lock and check if the date is in the cache
	sc.lock.RLock()
	entry, exists := sc.cache[dateKey]
	sc.lock.RUnlock()

	// If the date exists in the cache and matches the requested date, return the cached times
	if exists && entry.date.Equal(date) {
		return entry.times
	}

	// If not in cache, calculate the sun event times
	times := sc.calculateSunEventTimes(date)

	// Acquire a write lock and update the cache with the new times
	sc.lock.Lock()
	sc.cache[dateKey] = cacheEntry{times: times, date: date}
	sc.lock.Unlock()

	return times
}

// calculateSunEventTimes calculates all named sun event times for a given
// date. Events the sun never reaches are marked absent, never substituted.
func (sc *SunCalc) calculateSunEventTimes(date time.Time) SunEventTimes {
	var times SunEventTimes
	for _, event := range AllEvents() {
		t, ok := EventTime(date, sc.observer, event.Elevation(), event.Rising())
		st := SunTime{Time: t, Valid: ok}
		switch event {
		case EventAstronomicalDawn:
			times.AstronomicalDawn = st
		case EventNauticalDawn:
			times.NauticalDawn = st
		case EventCivilDawn:
			times.CivilDawn = st
		case EventSunrise:
			times.Sunrise = st
		case EventSunset:
			times.Sunset = st
		case EventCivilDusk:
			times.CivilDusk = st
		case EventNauticalDusk:
			times.NauticalDusk = st
		case EventAstronomicalDusk:
			times.AstronomicalDusk = st
		}
	}
	return times
}

// GetSunriseTime returns the sunrise time for a given date
func (sc *SunCalc) GetSunriseTime(date time.Time) SunTime {
	return sc.GetSunEventTimes(date).Sunrise
}

// GetSunsetTime returns the sunset time for a given date
func (sc *SunCalc) GetSunsetTime(date time.Time) SunTime {
	return sc.GetSunEventTimes(date).Sunset
}
