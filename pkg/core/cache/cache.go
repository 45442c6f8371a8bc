package cache

import (
	"sync"
	"time"
)

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Value      V
	Expiration time.Time
}

// expiredAt checks if the entry has expired at now
func (e Entry[V]) expiredAt(now time.Time) bool {
	if e.Expiration.IsZero() {
		return false // Never expires
	}
	return !now.Before(e.Expiration)
}

var neverExpires = time.Unix(1<<62, 0)

// Cache is a thread-safe in-memory cache with TTL support
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]Entry[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	// Metrics
	hits   int64
	misses int64
}

// Config holds cache configuration
type Config struct {
	MaxItems int
	TTL      time.Duration

	// Now overrides the time source, mainly for tests
	Now func() time.Time
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems: 1000,
		TTL:      time.Second,
	}
}

// New creates a new cache instance. Expired entries are dropped lazily,
// so no goroutine outlives the cache.
func New[V any](cfg Config) *Cache[V] {
	defaults := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaults.MaxItems
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Cache[V]{
		items:    make(map[string]Entry[V]),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      cfg.Now,
	}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists || entry.expiredAt(c.now()) {
		if exists {
			delete(c.items, key)
		}
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. A TTL of zero or less never
// expires.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.cleanup()
		if len(c.items) >= c.maxItems {
			c.evictOldest()
		}
	}

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	c.items[key] = Entry[V]{
		Value:      value,
		Expiration: exp,
	}
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]Entry[V])
}

// Size returns the number of items in the cache
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cache statistics
func (c *Cache[V]) Stats() (hits, misses int64, hitRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hits = c.hits
	misses = c.misses
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// evictOldest removes the entry closest to expiry (must be called with lock held)
func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.items {
		exp := entry.Expiration
		if exp.IsZero() {
			exp = neverExpires
		}
		if oldestKey == "" || exp.Before(oldestTime) {
			oldestKey = key
			oldestTime = exp
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// cleanup removes all expired entries (must be called with lock held)
func (c *Cache[V]) cleanup() {
	now := c.now()
	for key, entry := range c.items {
		if entry.expiredAt(now) {
			delete(c.items, key)
		}
	}
}

// GetOrSet gets a value or computes and stores it if not present. Errors
// from fn are not cached.
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	return c.GetOrSetWithTTL(key, c.ttl, fn)
}

// GetOrSetWithTTL is like GetOrSet but with custom TTL
func (c *Cache[V]) GetOrSetWithTTL(key string, ttl time.Duration, fn func() (V, error)) (V, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.SetWithTTL(key, val, ttl)
	return val, nil
}
