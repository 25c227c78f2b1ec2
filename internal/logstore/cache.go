package logstore

import (
	"sync"
	"time"
)

// Clock returns the current time. Injected so TTL expiry is testable.
type Clock func() time.Time

// TTLCache is a small in-process cache whose entries expire after a fixed
// TTL. Expired entries are overwritten on the next Set; there is no active
// eviction.
type TTLCache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]ttlEntry[V]
}

type ttlEntry[V any] struct {
	value    V
	storedAt time.Time
}

// NewTTLCache creates a cache with the given TTL. A nil clock uses time.Now.
func NewTTLCache[V any](ttl time.Duration, now Clock) *TTLCache[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]ttlEntry[V]),
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value for key, resetting its TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[V]{value: value, storedAt: c.now()}
}
