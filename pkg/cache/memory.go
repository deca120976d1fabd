package cache

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	value     string
	timestamp time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
type InMemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// A zero or negative ttl means entries never expire.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && c.now().Sub(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(_ context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: c.now(),
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Sweep removes every expired entry and returns how many were removed.
func (c *InMemoryCache) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.cache {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *InMemoryCache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

var _ TranslationCache = (*InMemoryCache)(nil)
