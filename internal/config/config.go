package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/harborline/voyage-weather/internal/voyage"
)

var validate = validator.New()

// CacheSettings controls the per-provider snapshot cache. The TTL is a
// pointer so an omitted field takes the default while an explicit zero,
// which disables caching, is preserved.
type CacheSettings struct {
	TTLSeconds *int `yaml:"ttl_seconds" validate:"omitempty,gte=0"`
}

// RateLimitSettings controls the per-provider sliding-window limit. The
// window period is fixed at one minute.
type RateLimitSettings struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gte=1"`
}

// ProviderSettings is the static configuration for one weather provider.
// Immutable for the process lifetime once loaded.
type ProviderSettings struct {
	Name                   string            `yaml:"name" validate:"required"`
	BaseURL                string            `yaml:"base_url" validate:"required,url"`
	Adapter                string            `yaml:"adapter" validate:"required"`
	TimeoutSeconds         float64           `yaml:"timeout_seconds" validate:"gt=0"`
	Retries                *int              `yaml:"retries" validate:"omitempty,gte=0"`
	CircuitBreakerFailures int               `yaml:"circuit_breaker_failures" validate:"gte=1"`
	Cache                  CacheSettings     `yaml:"cache"`
	RateLimit              RateLimitSettings `yaml:"rate_limit"`
	Units                  string            `yaml:"units"`
	SecretSuffix           string            `yaml:"secret_suffix"`

	// APIKey comes from the WEATHER_API_KEY_<suffix> environment variable,
	// never from the YAML file.
	APIKey string `yaml:"-"`
}

// Timeout returns the remote-call timeout as a duration.
func (p ProviderSettings) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds * float64(time.Second))
}

// CacheTTL returns the cache TTL as a duration; an unset TTL means no
// caching, same as an explicit zero.
func (p ProviderSettings) CacheTTL() time.Duration {
	if p.Cache.TTLSeconds == nil {
		return 0
	}
	return time.Duration(*p.Cache.TTLSeconds) * time.Second
}

// RetryAttempts returns the configured retry budget.
func (p ProviderSettings) RetryAttempts() int {
	if p.Retries == nil {
		return 0
	}
	return *p.Retries
}

// Waypoint is a location the scheduler keeps fresh weather for. Either
// coordinates or a city/country pair (resolved via geocoding) must be set.
type Waypoint struct {
	Name    string   `yaml:"name" validate:"required"`
	City    string   `yaml:"city"`
	Country string   `yaml:"country"`
	Lat     *float64 `yaml:"lat"`
	Lon     *float64 `yaml:"lon"`
}

// HasCoordinates reports whether the waypoint already carries coordinates.
func (w Waypoint) HasCoordinates() bool {
	return w.Lat != nil && w.Lon != nil
}

// AppConfig is the application-wide configuration: the provider chain and
// thresholds come from the YAML file, runtime knobs from the environment.
type AppConfig struct {
	Providers        []ProviderSettings `yaml:"providers" validate:"required,min=1,dive"`
	ProviderOrder    []string           `yaml:"provider_order" validate:"required,min=1"`
	MarineThresholds voyage.Thresholds  `yaml:"marine_thresholds"`
	Waypoints        []Waypoint         `yaml:"waypoints" validate:"dive"`

	// Environment-sourced settings.
	FetchInterval   time.Duration
	StoreMaxHistory int
	StoreMaxAge     time.Duration
	Port            string
	ReportDir       string
	CSVPath         string
	GeocoderAPIKey  string
}

// ProviderByName finds a provider's settings by its configured name.
func (c *AppConfig) ProviderByName(name string) (ProviderSettings, error) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return ProviderSettings{}, fmt.Errorf("unknown provider %q", name)
}

// Load reads the YAML file at path, merges provider API keys from the
// environment, applies defaults and validates the result.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &AppConfig{
		MarineThresholds: voyage.DefaultThresholds(),
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for i := range cfg.Providers {
		applyProviderDefaults(&cfg.Providers[i])
		mergeSecret(&cfg.Providers[i])
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Every entry in provider_order must name a configured provider.
	for _, name := range cfg.ProviderOrder {
		if _, err := cfg.ProviderByName(name); err != nil {
			return nil, fmt.Errorf("invalid provider_order: %w", err)
		}
	}
	for _, wp := range cfg.Waypoints {
		if !wp.HasCoordinates() && (wp.City == "" || wp.Country == "") {
			return nil, fmt.Errorf("waypoint %q needs lat/lon or city+country", wp.Name)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyProviderDefaults fills fields the stanza omitted. Retries and the
// cache TTL are pointers so that an explicit zero survives: retries: 0
// means a single attempt, ttl_seconds: 0 disables caching.
func applyProviderDefaults(p *ProviderSettings) {
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = 5.0
	}
	if p.Retries == nil {
		p.Retries = intPtr(3)
	}
	if p.CircuitBreakerFailures == 0 {
		p.CircuitBreakerFailures = 5
	}
	if p.Cache.TTLSeconds == nil {
		p.Cache.TTLSeconds = intPtr(300)
	}
	if p.RateLimit.RequestsPerMinute == 0 {
		p.RateLimit.RequestsPerMinute = 60
	}
	if p.Units == "" {
		p.Units = "metric"
	}
}

func intPtr(v int) *int {
	return &v
}

// mergeSecret pulls the provider's API key from WEATHER_API_KEY_<suffix>.
func mergeSecret(p *ProviderSettings) {
	if p.SecretSuffix == "" {
		return
	}
	if key := os.Getenv("WEATHER_API_KEY_" + p.SecretSuffix); key != "" {
		p.APIKey = key
	}
}

func loadEnv(cfg *AppConfig) error {
	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "30m"))
	if err != nil {
		return fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil {
		return fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96)
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ReportDir = getenvDefault("REPORT_DIR", "reports")
	cfg.CSVPath = getenvDefault("CSV_PATH", "outputs/voyage_summary.csv")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
