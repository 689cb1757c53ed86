package daylight

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurinko-app/daycal/internal/suncalc"
)

func testModel() *Model {
	return NewModel(suncalc.GeoCoordinate{Latitude: 60.1699, Longitude: 24.9384})
}

func testDate() time.Time {
	return time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
}

func TestPeriodsForDayCoverage(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
	}
	latitudes := []float64{-60, -45, -23.5, 0, 23.5, 45, 60}

	for _, lat := range latitudes {
		model := NewModel(suncalc.GeoCoordinate{Latitude: lat})
		for _, date := range dates {
			periods := model.PeriodsForDay(date)

			require.Len(t, periods, 13, "lat %v date %v", lat, date)
			assert.Equal(t, 0.0, periods[0].StartHour)
			assert.Equal(t, 24.0, periods[len(periods)-1].EndHour)
			assert.Equal(t, PhaseNight, periods[0].Phase)
			assert.Equal(t, PhaseNight, periods[len(periods)-1].Phase)

			for i := 1; i < len(periods); i++ {
				assert.Equal(t, periods[i-1].EndHour, periods[i].StartHour,
					"gap or overlap at period %d, lat %v date %v", i, lat, date)
				assert.LessOrEqual(t, periods[i].StartHour, periods[i].EndHour,
					"period %d runs backward, lat %v date %v", i, lat, date)
			}

			// Exactly one period contains any given hour
			for h := 0.0; h < 24; h += 0.25 {
				containing := 0
				for _, p := range periods {
					if p.Contains(h) {
						containing++
					}
				}
				assert.Equal(t, 1, containing, "hour %v, lat %v date %v", h, lat, date)
			}
		}
	}
}

func TestPeriodsPhaseOrder(t *testing.T) {
	periods := testModel().PeriodsForDay(testDate())

	want := []Phase{
		PhaseNight,
		PhaseAstronomicalTwilight,
		PhaseNauticalTwilight,
		PhaseCivilTwilight,
		PhaseSunrise,
		PhaseGoldenHour,
		PhaseDaylight,
		PhaseGoldenHourEvening,
		PhaseSunset,
		PhaseCivilTwilightEvening,
		PhaseNauticalTwilightEvening,
		PhaseAstronomicalTwilightEvening,
		PhaseNight,
	}
	require.Len(t, periods, len(want))
	for i, p := range periods {
		assert.Equal(t, want[i], p.Phase, "period %d", i)
	}
}

func TestColorForHourContinuity(t *testing.T) {
	model := testModel()
	date := testDate()
	periods := model.PeriodsForDay(date)

	const eps = 1e-4
	const tolerance = 0.01

	for i := 1; i < len(periods); i++ {
		boundary := periods[i].StartHour
		if boundary <= 0 || boundary >= 24 {
			continue
		}
		left := model.ColorForHour(boundary-eps, date)
		right := model.ColorForHour(boundary+eps, date)

		assert.InDelta(t, left.R, right.R, tolerance, "R jump at %v (%v -> %v)", boundary, periods[i-1].Phase, periods[i].Phase)
		assert.InDelta(t, left.G, right.G, tolerance, "G jump at %v", boundary)
		assert.InDelta(t, left.B, right.B, tolerance, "B jump at %v", boundary)
		assert.InDelta(t, left.A, right.A, tolerance, "A jump at %v", boundary)
	}
}

func TestColorForHourStableMiddle(t *testing.T) {
	model := testModel()
	date := testDate()

	for _, p := range model.PeriodsForDay(date) {
		if p.Phase == PhaseDaylight {
			continue
		}
		mid := p.StartHour + (p.EndHour-p.StartHour)/2
		got := model.ColorForHour(mid, date)
		assert.Equal(t, p.Color, got, "middle of %v should be the exact period color", p.Phase)
	}
}

func TestColorForHourDaylightPeak(t *testing.T) {
	model := testModel()
	date := testDate()

	var daylight Period
	for _, p := range model.PeriodsForDay(date) {
		if p.Phase == PhaseDaylight {
			daylight = p
		}
	}
	require.NotZero(t, daylight.EndHour)

	mid := daylight.StartHour + (daylight.EndHour-daylight.StartHour)/2
	peak := model.ColorForHour(mid, date)
	edge := model.ColorForHour(daylight.StartHour+1e-6, date)

	// Midday color is the lightened zenith blend, the edges the rich base
	assert.InDelta(t, daylightZenith.R, peak.R, 1e-6)
	assert.InDelta(t, colorDaylight.R, edge.R, 1e-3)
	assert.Greater(t, peak.R+peak.G+peak.B, edge.R+edge.G+edge.B,
		"midday should be lighter than the daylight edges")
}

func TestColorForHourDeterministic(t *testing.T) {
	model := testModel()
	date := testDate()

	// Simulate a 96-point gradient bar rendered twice
	for i := 0; i < 96; i++ {
		h := float64(i) * 0.25
		first := model.ColorForHour(h, date)
		second := model.ColorForHour(h, date)
		assert.Equal(t, first, second, "hour %v", h)
	}
}

func TestLerpClampsFactor(t *testing.T) {
	a := RGBA{R: 0, G: 0, B: 0, A: 1}
	b := RGBA{R: 1, G: 1, B: 1, A: 1}

	assert.Equal(t, a, a.Lerp(b, -0.5))
	assert.Equal(t, b, a.Lerp(b, 1.5))

	half := a.Lerp(b, 0.5)
	assert.True(t, math.Abs(half.R-0.5) < 1e-9)
}

func TestNoCrossDayBlending(t *testing.T) {
	model := testModel()
	date := testDate()

	// The very start and end of the day hold the plain night color; midnight
	// neighbors on the other side of the day boundary are ignored.
	assert.Equal(t, colorNight, model.ColorForHour(0, date))
	assert.Equal(t, colorNight, model.ColorForHour(23.999, date))
}
