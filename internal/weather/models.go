package weather

import (
	"time"
)

// MarineConditions captures the sea/wind metrics downstream risk logic
// consumes. All fields are non-negative.
type MarineConditions struct {
	WindSpeedKnots float64 `json:"wind_speed_knots"`
	WindGustKnots  float64 `json:"wind_gust_knots"`
	WaveHeightM    float64 `json:"wave_height_m"`
	VisibilityNM   float64 `json:"visibility_nm"`
}

// Observation is the current conditions reported by a single provider.
// Provenance identifies the adapter that produced it.
type Observation struct {
	Timestamp    time.Time        `json:"timestamp"` // always UTC
	TemperatureC float64          `json:"temperature_c"`
	Marine       MarineConditions `json:"marine"`
	Provenance   string           `json:"provenance"`
}

// ForecastEntry is one future forecast point.
type ForecastEntry struct {
	Timestamp    time.Time        `json:"timestamp"`
	TemperatureC float64          `json:"temperature_c"`
	Marine       MarineConditions `json:"marine"`
}

// ForecastBundle is an ordered set of forecast entries. Entries are not
// guaranteed to be pre-sorted; consumers filter by time range via Window.
type ForecastBundle struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Horizon     time.Duration   `json:"horizon"`
	Entries     []ForecastEntry `json:"entries"`
	Provenance  string          `json:"provenance"`
}

// Window returns the entries whose timestamps fall inside [start, end].
func (b ForecastBundle) Window(start, end time.Time) []ForecastEntry {
	var entries []ForecastEntry
	for _, entry := range b.Entries {
		if entry.Timestamp.Before(start) || entry.Timestamp.After(end) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Snapshot is the unit of result: one observation plus the forecast bundle
// from the same provider. Snapshots are value objects and are never mutated
// in place; derived snapshots are built with WithMarineAt.
type Snapshot struct {
	Observation Observation    `json:"observation"`
	Forecast    ForecastBundle `json:"forecast"`
}

// WithMarineAt returns a copy of the snapshot whose observation carries the
// given marine conditions and timestamp. The forecast is shared unchanged.
func (s Snapshot) WithMarineAt(marine MarineConditions, at time.Time) Snapshot {
	derived := s
	derived.Observation.Marine = marine
	derived.Observation.Timestamp = at
	return derived
}
