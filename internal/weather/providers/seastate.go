package providers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/harborline/voyage-weather/internal/weather"
)

// seastateAdapter speaks the SeaState API: GET /v1/weather with
// latitude/longitude/when parameters and a flat payload of abbreviated keys
// (marine_current, forecast_periods) whose forecast entries nest wind/sea
// blocks. Units match the normalized model, so parsing is a passthrough.
type seastateAdapter struct{}

func (a *seastateAdapter) Path() string {
	return "/v1/weather"
}

func (a *seastateAdapter) Query(lat, lon float64, when string) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("when", when)
	return values
}

func (a *seastateAdapter) Parse(body []byte) (weather.Snapshot, error) {
	var payload struct {
		CurrentTimestamp time.Time `json:"current_timestamp"`
		CurrentTempC     float64   `json:"current_temp_c"`
		MarineCurrent    struct {
			WindKts      float64 `json:"wind_kts"`
			GustKts      float64 `json:"gust_kts"`
			WaveM        float64 `json:"wave_m"`
			VisibilityNM float64 `json:"visibility_nm"`
		} `json:"marine_current"`
		ForecastGenerated time.Time `json:"forecast_generated"`
		ForecastHours     float64   `json:"forecast_hours"`
		ForecastPeriods   []struct {
			TS    time.Time `json:"ts"`
			TempC float64   `json:"temp_c"`
			Wind  struct {
				Kts     float64 `json:"kts"`
				GustKts float64 `json:"gust_kts"`
			} `json:"wind"`
			Sea struct {
				WaveM        float64 `json:"wave_m"`
				VisibilityNM float64 `json:"visibility_nm"`
			} `json:"sea"`
		} `json:"forecast_periods"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("seastate payload: %w", err)
	}
	if payload.CurrentTimestamp.IsZero() {
		return weather.Snapshot{}, fmt.Errorf("seastate payload: missing current observation")
	}

	marine := weather.MarineConditions{
		WindSpeedKnots: payload.MarineCurrent.WindKts,
		WindGustKnots:  payload.MarineCurrent.GustKts,
		WaveHeightM:    payload.MarineCurrent.WaveM,
		VisibilityNM:   payload.MarineCurrent.VisibilityNM,
	}
	if err := checkMarine(marine); err != nil {
		return weather.Snapshot{}, fmt.Errorf("seastate payload: %w", err)
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.ForecastPeriods))
	for _, period := range payload.ForecastPeriods {
		entries = append(entries, weather.ForecastEntry{
			Timestamp:    period.TS.UTC(),
			TemperatureC: period.TempC,
			Marine: weather.MarineConditions{
				WindSpeedKnots: period.Wind.Kts,
				WindGustKnots:  period.Wind.GustKts,
				WaveHeightM:    period.Sea.WaveM,
				VisibilityNM:   period.Sea.VisibilityNM,
			},
		})
	}

	return weather.Snapshot{
		Observation: weather.Observation{
			Timestamp:    payload.CurrentTimestamp.UTC(),
			TemperatureC: payload.CurrentTempC,
			Marine:       marine,
		},
		Forecast: weather.ForecastBundle{
			GeneratedAt: payload.ForecastGenerated.UTC(),
			Horizon:     hoursToDuration(payload.ForecastHours),
			Entries:     entries,
		},
	}, nil
}
