// Package cache provides a small TTL memoization primitive used by the
// tool gating layer. Each logical cache is a single process-lifetime
// instance with one TTL, shared by all callers.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache memoizes computed values with a fixed TTL per cache instance.
// It is safe for concurrent use. On expiry the value is recomputed; a
// concurrent recompute of the same key is possible and accepted (the
// probes behind it are idempotent and the TTL window is short).
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding at most size entries, each expiring ttl
// after being stored.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](size, nil, ttl),
	}
}

// GetOrCompute returns the cached value for key, computing and storing it
// via fn on a miss or after expiry. Errors from fn are returned to the
// caller and never cached.
func (c *Cache[K, V]) GetOrCompute(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.lru.Add(key, v)
	return v, nil
}

// Get returns the cached value for key without computing.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Remove drops the entry for key, forcing the next GetOrCompute to recompute.
func (c *Cache[K, V]) Remove(key K) {
	c.lru.Remove(key)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
