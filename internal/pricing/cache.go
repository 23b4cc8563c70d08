package pricing

import (
	"context"
	"sync"
	"time"
)

// FetchFunc produces a fresh value on a cache miss.
type FetchFunc func(ctx context.Context) (float64, error)

// Cache is a read-through TTL cache for price values. A hit within TTL must
// not invoke fetch; a fetch failure must not be written back, so the next
// call retries.
type Cache interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (float64, error)
}

// memoryEntry is a cached value with its expiry instant.
type memoryEntry struct {
	value     float64
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expiry is lazy: entries are
// dropped when read after their deadline, not by a background sweeper.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache using the wall clock.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(time.Now)
}

// NewMemoryCacheWithClock creates a MemoryCache with an injected clock.
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// GetOrFetch returns the cached value for key if it is still fresh, otherwise
// calls fetch and stores the result. The lock is not held across fetch;
// concurrent misses on the same key may fetch independently and the last
// writer wins, which is acceptable for a spot price.
func (c *MemoryCache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (float64, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.value, nil
	}
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return value, nil
}

var _ Cache = (*MemoryCache)(nil)
