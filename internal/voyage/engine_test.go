package voyage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/voyage-weather/internal/weather"
)

func calmSnapshot(at time.Time) weather.Snapshot {
	return weather.Snapshot{
		Observation: weather.Observation{
			Timestamp:    at,
			TemperatureC: 26.0,
			Marine: weather.MarineConditions{
				WindSpeedKnots: 10.0,
				WindGustKnots:  14.0,
				WaveHeightM:    1.0,
				VisibilityNM:   9.0,
			},
			Provenance: "MarineCast",
		},
		Forecast: weather.ForecastBundle{GeneratedAt: at, Provenance: "MarineCast"},
	}
}

func testVessel() VesselProfile {
	return VesselProfile{
		Name:              "MV Test",
		ServiceSpeedKnots: 18.0,
		WeatherCaps:       DefaultThresholds(),
	}
}

func TestAssessCalmConditionsAllowDeparture(t *testing.T) {
	departure := time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC)
	plan := Plan{
		Origin:           "Jebel Ali",
		Destination:      "Salalah",
		PlannedDeparture: departure,
		DistanceNM:       180.0,
	}

	assessment := Assess(plan, testVessel(), calmSnapshot(departure))

	require.Len(t, assessment.RiskFlags, 4)
	assert.True(t, assessment.ETDAllowed)
	assert.Equal(t, "All thresholds satisfied", assessment.ETDReason)
	assert.Equal(t, "MarineCast", assessment.Provenance)

	// 180 nm at 18 kn is a 10 hour passage, P90 adds 20%.
	assert.Equal(t, departure, assessment.Window.Departure)
	assert.Equal(t, departure.Add(10*time.Hour), assessment.Window.ArrivalWindowStart)
	assert.Equal(t, departure.Add(12*time.Hour), assessment.Window.ArrivalWindowEnd)
	assert.True(t, assessment.Window.ArrivalWindowStart.After(departure))
}

func TestAssessRoughConditionsBlockDeparture(t *testing.T) {
	departure := time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC)
	snapshot := calmSnapshot(departure)
	snapshot.Observation.Marine = weather.MarineConditions{
		WindSpeedKnots: 26.0,
		WindGustKnots:  32.0,
		WaveHeightM:    2.0,
		VisibilityNM:   3.0,
	}
	plan := Plan{Origin: "A", Destination: "B", PlannedDeparture: departure, DistanceNM: 90.0}

	assessment := Assess(plan, testVessel(), snapshot)

	assert.False(t, assessment.ETDAllowed)
	assert.Equal(t, "26.00 !<= 20.00; 32.00 !<= 25.00; 3.00 !>= 5.00", assessment.ETDReason)
}

func TestSelectDeparturePrefersForecastAtDeparture(t *testing.T) {
	now := time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC)
	departure := now.Add(3 * time.Hour)
	snapshot := calmSnapshot(now)
	snapshot.Forecast.Entries = []weather.ForecastEntry{
		{Timestamp: now.Add(time.Hour), Marine: weather.MarineConditions{WaveHeightM: 1.2}},
		{Timestamp: now.Add(3 * time.Hour), Marine: weather.MarineConditions{WaveHeightM: 2.5, VisibilityNM: 6.0}},
		{Timestamp: now.Add(6 * time.Hour), Marine: weather.MarineConditions{WaveHeightM: 0.8}},
	}

	selected := SelectDeparture(snapshot, departure)

	assert.Equal(t, departure, selected.Observation.Timestamp)
	assert.InDelta(t, 2.5, selected.Observation.Marine.WaveHeightM, 1e-9)
	assert.Equal(t, "MarineCast", selected.Observation.Provenance)
}

func TestSelectDepartureBeyondForecastKeepsObservation(t *testing.T) {
	now := time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC)
	snapshot := calmSnapshot(now)
	snapshot.Forecast.Entries = []weather.ForecastEntry{
		{Timestamp: now.Add(time.Hour), Marine: weather.MarineConditions{WaveHeightM: 1.2}},
	}

	selected := SelectDeparture(snapshot, now.Add(48*time.Hour))

	assert.Equal(t, snapshot, selected)
}
