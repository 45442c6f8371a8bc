package server

import (
	"context"
	"time"

	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/pkg/core/cache"
)

type resolved struct {
	interval clock.Interval
	source   string
}

// cachedSource keeps the resolved interval for a short while so that
// every connected display does not hit the store on every push
type cachedSource struct {
	next  IntervalSource
	cache *cache.Cache[resolved]
}

func newCachedSource(next IntervalSource, ttl time.Duration) *cachedSource {
	return &cachedSource{
		next:  next,
		cache: cache.New[resolved](cache.Config{MaxItems: 1, TTL: ttl}),
	}
}

func (c *cachedSource) Resolve(ctx context.Context) (clock.Interval, string, error) {
	r, err := c.cache.GetOrSet("interval", func() (resolved, error) {
		iv, source, err := c.next.Resolve(ctx)
		return resolved{interval: iv, source: source}, err
	})
	return r.interval, r.source, err
}
