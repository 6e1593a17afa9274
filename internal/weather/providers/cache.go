package providers

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/harborline/voyage-weather/internal/weather"
)

// cacheEntry pairs a snapshot with its expiry instant. Expiry is measured on
// the injected clock, never recomputed from wall time.
type cacheEntry struct {
	value     weather.Snapshot
	expiresAt time.Time
}

// ttlCache is a mutex-guarded snapshot cache with read-side expiry. There is
// no background sweeper: an entry past its expiry instant is removed on the
// next Get. Each provider client owns exactly one cache.
type ttlCache struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]cacheEntry
}

func newTTLCache(clock clockwork.Clock) *ttlCache {
	return &ttlCache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for key, or ok=false on a miss. An entry
// whose expiry instant has passed counts as a miss and is evicted.
func (c *ttlCache) Get(key string) (weather.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return weather.Snapshot{}, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return weather.Snapshot{}, false
	}
	return entry.value, true
}

// Set stores value under key for ttl.
func (c *ttlCache) Set(key string, value weather.Snapshot, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}
