package providers

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrCircuitOpen is returned by EnsureClosed while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// circuitBreaker is a two-state failure counter: closed (openedAt zero) or
// open (openedAt set). There is no half-open probing state: a single
// recorded success fully closes the breaker, and reopening requires hitting
// the full threshold again from zero. The open state expires lazily, checked
// on EnsureClosed rather than by a timer.
//
// The lock covers individual state transitions only. A fetch holds no lock
// across the remote call, so two concurrent fetches during an outage can
// both pass EnsureClosed before either records its failure; the threshold is
// a floor, not an exact admission count.
type circuitBreaker struct {
	mu        sync.Mutex
	threshold int
	reset     time.Duration
	clock     clockwork.Clock

	failures int
	openedAt time.Time
}

func newCircuitBreaker(threshold int, reset time.Duration, clock clockwork.Clock) *circuitBreaker {
	return &circuitBreaker{
		threshold: threshold,
		reset:     reset,
		clock:     clock,
	}
}

// EnsureClosed fails with ErrCircuitOpen while the breaker is open. It first
// applies the lazy reset: once the reset window has elapsed since opening,
// the breaker closes and the failure count returns to zero.
func (b *circuitBreaker) EnsureClosed() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openedAt.IsZero() {
		return nil
	}
	if b.clock.Now().Sub(b.openedAt) >= b.reset {
		b.failures = 0
		b.openedAt = time.Time{}
		return nil
	}
	return ErrCircuitOpen
}

// RecordFailure increments the failure count and opens the breaker once the
// count reaches the threshold.
func (b *circuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.failures >= b.threshold {
		b.openedAt = b.clock.Now()
	}
}

// RecordSuccess unconditionally resets the breaker to closed.
func (b *circuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.openedAt = time.Time{}
}
