package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/harborline/voyage-weather/internal/config"
	"github.com/harborline/voyage-weather/internal/weather"
)

const (
	rateLimitPeriod = time.Minute
	breakerReset    = time.Minute
	backoffInitial  = 500 * time.Millisecond
	backoffCap      = 5 * time.Second
)

// Adapter translates one provider's wire format: how to address it and how
// to map its JSON payload into the normalized snapshot. Adapters carry no
// state; all resilience lives in the Client composing them.
type Adapter interface {
	Path() string
	Query(lat, lon float64, when string) url.Values
	Parse(body []byte) (weather.Snapshot, error)
}

// Client wraps an Adapter with the shared resilient fetch pipeline:
// cache lookup, circuit check, rate-limit admission, retry-wrapped remote
// call, breaker update, cache store. Each Client exclusively owns its cache,
// limiter and breaker; none are shared across providers.
type Client struct {
	settings config.ProviderSettings
	adapter  Adapter
	http     *http.Client
	cache    *ttlCache
	limiter  *slidingWindow
	breaker  *circuitBreaker
	log      *logrus.Logger
}

func newClient(settings config.ProviderSettings, adapter Adapter, log *logrus.Logger, clock clockwork.Clock) *Client {
	return &Client{
		settings: settings,
		adapter:  adapter,
		http:     &http.Client{Timeout: settings.Timeout()},
		cache:    newTTLCache(clock),
		limiter:  newSlidingWindow(settings.RateLimit.RequestsPerMinute, rateLimitPeriod, clock),
		breaker:  newCircuitBreaker(settings.CircuitBreakerFailures, breakerReset, clock),
		log:      log,
	}
}

// Name returns the configured provider name; it becomes the provenance of
// every snapshot this client produces.
func (c *Client) Name() string {
	return c.settings.Name
}

// Fetch implements weather.Provider. Rate-limit and circuit-open failures
// are raised before the retry executor is entered and are never retried;
// any failure surviving the retry budget records a breaker failure.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, when string) (weather.Snapshot, error) {
	key := fmt.Sprintf("%s:%.4f:%.4f:%s", c.settings.Name, lat, lon, when)
	if snapshot, ok := c.cache.Get(key); ok {
		return snapshot, nil
	}

	if err := c.breaker.EnsureClosed(); err != nil {
		return weather.Snapshot{}, err
	}
	if err := c.limiter.Acquire(); err != nil {
		return weather.Snapshot{}, err
	}

	var snapshot weather.Snapshot
	err := retry(ctx, c.settings.RetryAttempts(), backoffInitial, backoffCap, func() error {
		result, err := c.fetchRemote(ctx, lat, lon, when)
		if err != nil {
			return err
		}
		snapshot = result
		return nil
	})
	if err != nil {
		// Caller-side cancellation is not a provider failure and must not
		// count toward opening the breaker.
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return weather.Snapshot{}, err
		}
		c.breaker.RecordFailure()
		c.log.WithFields(logrus.Fields{
			"provider": c.settings.Name,
			"error":    err,
		}).Error("provider fetch failed")
		return weather.Snapshot{}, fmt.Errorf("remote call failed: %w", err)
	}

	c.breaker.RecordSuccess()
	snapshot.Observation.Provenance = c.settings.Name
	snapshot.Forecast.Provenance = c.settings.Name
	c.cache.Set(key, snapshot, c.settings.CacheTTL())
	return snapshot, nil
}

// fetchRemote performs a single HTTP GET and parses the body. Transport
// failures and non-2xx statuses are transient; a 2xx body that fails to
// parse is a contract mismatch and is not retried.
func (c *Client) fetchRemote(ctx context.Context, lat, lon float64, when string) (weather.Snapshot, error) {
	endpoint := strings.TrimRight(c.settings.BaseURL, "/") + c.adapter.Path()
	u := endpoint + "?" + c.adapter.Query(lat, lon, when).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.settings.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return weather.Snapshot{}, transient(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Snapshot{}, transient(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Snapshot{}, transient(err)
	}
	return c.adapter.Parse(body)
}
