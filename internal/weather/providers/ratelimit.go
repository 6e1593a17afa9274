package providers

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrRateLimited is returned by Acquire when the sliding window is full.
// The caller must not retry; the orchestrator treats it as a reason to move
// to the next provider.
var ErrRateLimited = errors.New("rate limit exceeded")

// slidingWindow admits at most capacity acquisitions per trailing period.
// Acquire never blocks or queues: it either records the current instant or
// fails immediately. Stale instants are purged lazily on each call.
type slidingWindow struct {
	mu       sync.Mutex
	capacity int
	period   time.Duration
	clock    clockwork.Clock
	events   []time.Time
}

func newSlidingWindow(capacity int, period time.Duration, clock clockwork.Clock) *slidingWindow {
	return &slidingWindow{
		capacity: capacity,
		period:   period,
		clock:    clock,
	}
}

// Acquire records one request instant, or returns ErrRateLimited when the
// window already holds capacity instants.
func (w *slidingWindow) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	cut := 0
	for cut < len(w.events) && now.Sub(w.events[cut]) > w.period {
		cut++
	}
	if cut > 0 {
		w.events = w.events[cut:]
	}

	if len(w.events) >= w.capacity {
		return ErrRateLimited
	}
	w.events = append(w.events, now)
	return nil
}
