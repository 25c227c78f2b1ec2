package logstore

import (
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache[int](time.Minute, nil)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v != 42 {
		t.Errorf("Get = %d, %v, want 42, true", v, ok)
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := NewTTLCache[string](5*time.Minute, clock)
	c.Set("k", "v")

	now = now.Add(5 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry at exactly the TTL should still be fresh")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry past the TTL should miss")
	}

	// A new Set resets the clock.
	c.Set("k", "v2")
	v, ok := c.Get("k")
	if !ok || v != "v2" {
		t.Errorf("Get after re-set = %q, %v", v, ok)
	}
}
