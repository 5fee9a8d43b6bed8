// Package cache memoizes expensive node calls for a bounded time window.
package cache

import "time"

type entry[V any] struct {
	value  V
	expiry time.Time
}

// TTL wraps a deterministic operation and caches its result per key for a
// fixed time-to-live. Expired entries are overwritten lazily on the next
// access for the same key; there is no eviction goroutine, so unreferenced
// expired entries stay in memory. That is acceptable here: the key space is
// bounded by the cluster's node identifiers.
//
// A TTL instance is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access or give each goroutine its own instance.
type TTL[K comparable, V any] struct {
	fn      func(K) (V, error)
	ttl     time.Duration
	entries map[K]entry[V]
	now     func() time.Time
}

// New wraps fn with a cache holding each result for ttl. A ttl of zero
// disables caching entirely: every Get recomputes.
func New[K comparable, V any](fn func(K) (V, error), ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		fn:      fn,
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key if a live entry exists, otherwise
// recomputes it. Failed computations are never cached: the error is
// returned and the next Get for the same key retries.
func (c *TTL[K, V]) Get(key K) (V, error) {
	if c.ttl > 0 {
		if e, ok := c.entries[key]; ok && e.expiry.After(c.now()) {
			return e.value, nil
		}
	}

	v, err := c.fn(key)
	if err != nil {
		var zero V
		return zero, err
	}
	if c.ttl > 0 {
		c.entries[key] = entry[V]{value: v, expiry: c.now().Add(c.ttl)}
	}
	return v, nil
}

// Len reports the number of entries currently held, live or expired.
func (c *TTL[K, V]) Len() int {
	return len(c.entries)
}
