package voyage

import (
	"fmt"

	"github.com/harborline/voyage-weather/internal/weather"
)

// Thresholds are the vessel's marine caps. Wind, gust and wave are upper
// bounds; visibility is a lower bound.
type Thresholds struct {
	MaxWindSpeed  float64 `yaml:"max_wind_speed" validate:"gte=0"`
	MaxGust       float64 `yaml:"max_gust" validate:"gte=0"`
	MaxWaveHeight float64 `yaml:"max_wave_height" validate:"gte=0"`
	MinVisibility float64 `yaml:"min_visibility" validate:"gte=0"`
}

// DefaultThresholds returns the caps used when the configuration omits them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxWindSpeed:  20.0,
		MaxGust:       25.0,
		MaxWaveHeight: 3.0,
		MinVisibility: 5.0,
	}
}

// RiskFlag is the outcome of one threshold check.
type RiskFlag struct {
	Code   string `json:"code"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

// Evaluate checks the observed marine conditions against the thresholds and
// returns one flag per check, in a stable order. A failing reason carries a
// "!" marker before the comparator.
func (t Thresholds) Evaluate(marine weather.MarineConditions) []RiskFlag {
	return []RiskFlag{
		upperBound("wind_speed", marine.WindSpeedKnots, t.MaxWindSpeed),
		upperBound("gust", marine.WindGustKnots, t.MaxGust),
		upperBound("wave", marine.WaveHeightM, t.MaxWaveHeight),
		lowerBound("visibility", marine.VisibilityNM, t.MinVisibility),
	}
}

func upperBound(code string, actual, limit float64) RiskFlag {
	return boundFlag(code, actual, limit, "<=", actual <= limit)
}

func lowerBound(code string, actual, limit float64) RiskFlag {
	return boundFlag(code, actual, limit, ">=", actual >= limit)
}

func boundFlag(code string, actual, limit float64, comparator string, passed bool) RiskFlag {
	reason := fmt.Sprintf("%.2f %s %.2f", actual, comparator, limit)
	if !passed {
		reason = fmt.Sprintf("%.2f !%s %.2f", actual, comparator, limit)
	}
	return RiskFlag{Code: code, Passed: passed, Reason: reason}
}
