package service

import (
	"context"
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	payload   T
	fetchedAt time.Time
}

// ttlCache keeps one payload per key for a fixed duration. An expired
// entry is refreshed synchronously by the caller that finds it expired.
// When the refresh fails, a previously cached payload is served stale;
// the error surfaces only if there is nothing to fall back to.
type ttlCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry[T]
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry[T]{},
	}
}

func (c *ttlCache[T]) get(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.payload, nil
	}
	payload, err := fetch(ctx)
	if err != nil {
		if e, ok := c.entries[key]; ok {
			return e.payload, nil
		}
		var zero T
		return zero, err
	}
	c.entries[key] = cacheEntry[T]{payload: payload, fetchedAt: c.now()}
	return payload, nil
}
