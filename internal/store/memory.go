package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harborline/voyage-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot is available for a position.
	ErrNotFound = errors.New("no weather data for position")
)

// Key canonicalizes a coordinate pair for indexing. Coordinates are rounded
// to four decimals, matching the provider cache key resolution.
func Key(lat, lon float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lon)
}

// history holds a time-ordered list of snapshots for one position.
type history struct {
	snapshots []weather.Snapshot
}

// MemoryStore is a concurrency-safe in-memory snapshot history, keyed by
// rounded coordinates. The scheduler writes into it; the history endpoint
// reads from it.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*history

	// retention configuration
	maxHistory int           // max number of snapshots per position
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*history),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a snapshot for a position and enforces retention. Snapshots
// are ordered by their observation timestamp as they arrive.
func (s *MemoryStore) Save(lat, lon float64, snapshot weather.Snapshot) {
	key := Key(lat, lon)

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data[key]
	if !ok {
		h = &history{}
		s.data[key] = h
	}

	h.snapshots = append(h.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(h.snapshots) > s.maxHistory {
		over := len(h.snapshots) - s.maxHistory
		h.snapshots = h.snapshots[over:]
	}

	// Enforce retention by age. A history where every snapshot is stale is
	// emptied rather than kept around; Latest then reports ErrNotFound.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(h.snapshots); i++ {
			if !h.snapshots[i].Observation.Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			h.snapshots = h.snapshots[i:]
		}
	}
}

// Latest returns the most recent snapshot for a position.
func (s *MemoryStore) Latest(lat, lon float64) (weather.Snapshot, error) {
	key := Key(lat, lon)

	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[key]
	if !ok || len(h.snapshots) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return h.snapshots[len(h.snapshots)-1], nil
}

// Range returns all snapshots for a position whose observation timestamp
// falls between from and to (inclusive).
func (s *MemoryStore) Range(lat, lon float64, from, to time.Time) ([]weather.Snapshot, error) {
	key := Key(lat, lon)

	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[key]
	if !ok || len(h.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Snapshot
	for _, snap := range h.snapshots {
		ts := snap.Observation.Timestamp
		if !ts.Before(from) && !ts.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
