package voyage

import (
	"strings"
	"time"

	"github.com/harborline/voyage-weather/internal/weather"
)

// VesselProfile describes the vessel whose caps gate departure.
type VesselProfile struct {
	Name              string     `json:"name"`
	ServiceSpeedKnots float64    `json:"service_speed_knots"`
	WeatherCaps       Thresholds `json:"weather_caps"`
}

// Plan is the operator's intended voyage.
type Plan struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	PlannedDeparture time.Time `json:"planned_departure"`
	DistanceNM       float64   `json:"distance_nm"`
}

// Window is the projected arrival window: P50 at service speed, P90 with a
// 20% weather margin.
type Window struct {
	Departure          time.Time `json:"departure"`
	ArrivalWindowStart time.Time `json:"arrival_window_start"`
	ArrivalWindowEnd   time.Time `json:"arrival_window_end"`
}

// Assessment is the voyage feasibility result consumed by reports and the
// API.
type Assessment struct {
	Plan       Plan          `json:"plan"`
	Vessel     VesselProfile `json:"vessel"`
	Window     Window        `json:"window"`
	RiskFlags  []RiskFlag    `json:"risk_flags"`
	ETDAllowed bool          `json:"etd_allowed"`
	ETDReason  string        `json:"etd_reason"`
	Provenance string        `json:"provider_provenance"`
}

// Assess evaluates the snapshot's observed marine conditions against the
// vessel's caps and projects the arrival window.
func Assess(plan Plan, vessel VesselProfile, snapshot weather.Snapshot) Assessment {
	flags := vessel.WeatherCaps.Evaluate(snapshot.Observation.Marine)

	allowed := true
	var failures []string
	for _, flag := range flags {
		if !flag.Passed {
			allowed = false
			failures = append(failures, flag.Reason)
		}
	}
	reason := "All thresholds satisfied"
	if !allowed {
		reason = strings.Join(failures, "; ")
	}

	p50, p90 := etaRange(plan.DistanceNM, vessel.ServiceSpeedKnots)
	return Assessment{
		Plan:   plan,
		Vessel: vessel,
		Window: Window{
			Departure:          plan.PlannedDeparture,
			ArrivalWindowStart: plan.PlannedDeparture.Add(p50),
			ArrivalWindowEnd:   plan.PlannedDeparture.Add(p90),
		},
		RiskFlags:  flags,
		ETDAllowed: allowed,
		ETDReason:  reason,
		Provenance: snapshot.Observation.Provenance,
	}
}

// etaRange projects the passage duration from distance and service speed.
// P90 carries a 20% margin over the P50 linear estimate.
func etaRange(distanceNM, speedKnots float64) (time.Duration, time.Duration) {
	baseHours := distanceNM / speedKnots
	p50 := time.Duration(baseHours * float64(time.Hour))
	p90 := time.Duration(baseHours * 1.2 * float64(time.Hour))
	return p50, p90
}

// SelectDeparture derives the snapshot to assess at the planned departure:
// the first forecast entry at or after departure (in bundle order) replaces
// the observed marine conditions via copy-with-override. When nothing in the
// forecast covers the departure, the original snapshot is returned.
func SelectDeparture(snapshot weather.Snapshot, departure time.Time) weather.Snapshot {
	for _, entry := range snapshot.Forecast.Entries {
		if !entry.Timestamp.Before(departure) {
			return snapshot.WithMarineAt(entry.Marine, departure)
		}
	}
	return snapshot
}
