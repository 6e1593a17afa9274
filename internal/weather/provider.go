package weather

import (
	"context"
	"strings"
)

// Provider abstracts one weather source behind the resilient fetch pipeline.
// Implementations own their cache, rate limiter and circuit breaker; they are
// tried in configured order by the Service.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64, when string) (Snapshot, error)
}

// FallbackError is the terminal error returned when every configured
// provider has failed. Attempts holds one "<provider>: <reason>" entry per
// provider, in the order they were tried.
type FallbackError struct {
	Attempts []string
}

func (e *FallbackError) Error() string {
	if len(e.Attempts) == 0 {
		return "no weather providers configured"
	}
	return strings.Join(e.Attempts, "; ")
}
