package providers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/harborline/voyage-weather/internal/weather"
)

// marinecastAdapter speaks the MarineCast API: GET /weather with lat/lon/time
// query parameters and a nested current/marine/forecast payload using full
// snake_case field names. Values arrive already in knots, metres and
// nautical miles, so parsing is a unit passthrough.
type marinecastAdapter struct {
	units string
}

type marinecastMarine struct {
	WindSpeedKnots float64 `json:"wind_speed_knots"`
	WindGustKnots  float64 `json:"wind_gust_knots"`
	WaveHeightM    float64 `json:"wave_height_m"`
	VisibilityNM   float64 `json:"visibility_nm"`
}

func (m marinecastMarine) toConditions() weather.MarineConditions {
	return weather.MarineConditions{
		WindSpeedKnots: m.WindSpeedKnots,
		WindGustKnots:  m.WindGustKnots,
		WaveHeightM:    m.WaveHeightM,
		VisibilityNM:   m.VisibilityNM,
	}
}

func (a *marinecastAdapter) Path() string {
	return "/weather"
}

func (a *marinecastAdapter) Query(lat, lon float64, when string) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.4f", lat))
	values.Set("lon", fmt.Sprintf("%.4f", lon))
	values.Set("time", when)
	values.Set("units", a.units)
	return values
}

func (a *marinecastAdapter) Parse(body []byte) (weather.Snapshot, error) {
	var payload struct {
		Current struct {
			Timestamp    time.Time        `json:"timestamp"`
			TemperatureC float64          `json:"temperature_c"`
			Marine       marinecastMarine `json:"marine"`
		} `json:"current"`
		ForecastGeneratedAt  time.Time `json:"forecast_generated_at"`
		ForecastHorizonHours float64   `json:"forecast_horizon_hours"`
		Forecast             []struct {
			Timestamp    time.Time        `json:"timestamp"`
			TemperatureC float64          `json:"temperature_c"`
			Marine       marinecastMarine `json:"marine"`
		} `json:"forecast"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("marinecast payload: %w", err)
	}
	if payload.Current.Timestamp.IsZero() {
		return weather.Snapshot{}, fmt.Errorf("marinecast payload: missing current observation")
	}
	if err := checkMarine(payload.Current.Marine.toConditions()); err != nil {
		return weather.Snapshot{}, fmt.Errorf("marinecast payload: %w", err)
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.Forecast))
	for _, item := range payload.Forecast {
		entries = append(entries, weather.ForecastEntry{
			Timestamp:    item.Timestamp.UTC(),
			TemperatureC: item.TemperatureC,
			Marine:       item.Marine.toConditions(),
		})
	}

	return weather.Snapshot{
		Observation: weather.Observation{
			Timestamp:    payload.Current.Timestamp.UTC(),
			TemperatureC: payload.Current.TemperatureC,
			Marine:       payload.Current.Marine.toConditions(),
		},
		Forecast: weather.ForecastBundle{
			GeneratedAt: payload.ForecastGeneratedAt.UTC(),
			Horizon:     hoursToDuration(payload.ForecastHorizonHours),
			Entries:     entries,
		},
	}, nil
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// checkMarine rejects payloads violating the non-negative metric invariant.
func checkMarine(m weather.MarineConditions) error {
	if m.WindSpeedKnots < 0 || m.WindGustKnots < 0 || m.WaveHeightM < 0 || m.VisibilityNM < 0 {
		return fmt.Errorf("negative marine metric")
	}
	return nil
}
