package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastBundleWindow(t *testing.T) {
	base := time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC)
	bundle := ForecastBundle{
		Entries: []ForecastEntry{
			{Timestamp: base},
			{Timestamp: base.Add(3 * time.Hour)},
			{Timestamp: base.Add(6 * time.Hour)},
			{Timestamp: base.Add(9 * time.Hour)},
		},
	}

	entries := bundle.Window(base.Add(2*time.Hour), base.Add(6*time.Hour))
	require.Len(t, entries, 2)
	assert.Equal(t, base.Add(3*time.Hour), entries[0].Timestamp)
	assert.Equal(t, base.Add(6*time.Hour), entries[1].Timestamp, "range bounds are inclusive")

	assert.Empty(t, bundle.Window(base.Add(10*time.Hour), base.Add(12*time.Hour)))
}

func TestSnapshotWithMarineAt(t *testing.T) {
	base := time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC)
	original := stubSnapshot("MarineCast")
	rough := MarineConditions{WindSpeedKnots: 30.0, WaveHeightM: 4.0, VisibilityNM: 1.0}

	derived := original.WithMarineAt(rough, base.Add(3*time.Hour))

	assert.Equal(t, rough, derived.Observation.Marine)
	assert.Equal(t, base.Add(3*time.Hour), derived.Observation.Timestamp)
	assert.Equal(t, "MarineCast", derived.Observation.Provenance)
	assert.Equal(t, original.Forecast, derived.Forecast)

	// The source snapshot is untouched.
	assert.Equal(t, base, original.Observation.Timestamp)
	assert.NotEqual(t, rough, original.Observation.Marine)
}
