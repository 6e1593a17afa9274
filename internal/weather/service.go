package weather

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Service walks the configured provider chain in order and returns the first
// successful snapshot. Provider failures are logged and converted into
// fallback progression; only the terminal aggregate failure reaches the
// caller. Providers are never raced in parallel: the order is the operator's
// preference and a cheap cache hit on the first provider must win.
type Service struct {
	providers []Provider
	log       *logrus.Logger
}

// NewService creates a Service over an ordered provider chain.
func NewService(providers []Provider, log *logrus.Logger) *Service {
	return &Service{
		providers: providers,
		log:       log,
	}
}

// Fetch tries each provider in order and returns the first snapshot. When
// every provider fails it returns a *FallbackError carrying one message per
// attempted provider.
func (s *Service) Fetch(ctx context.Context, lat, lon float64, when string) (Snapshot, error) {
	var attempts []string
	for _, p := range s.providers {
		s.log.WithField("provider", p.Name()).Info("provider attempt")

		snapshot, err := p.Fetch(ctx, lat, lon, when)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"provider": p.Name(),
				"error":    err,
			}).Warn("provider failed")
			attempts = append(attempts, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		return snapshot, nil
	}
	return Snapshot{}, &FallbackError{Attempts: attempts}
}
