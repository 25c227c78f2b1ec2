package insight

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTeamKey_Deterministic(t *testing.T) {
	start := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	if TeamKey(start, end) != TeamKey(start, end) {
		t.Error("same window should produce the same key")
	}
	if TeamKey(start, end) == TeamKey(start, end.Add(time.Second)) {
		t.Error("different windows should produce different keys")
	}

	// User keys never collide with team keys for the same window.
	if TeamKey(start, end) == UserKey("u1", start, end) {
		t.Error("user key collides with team key")
	}
	if UserKey("u1", start, end) == UserKey("u2", start, end) {
		t.Error("user keys for different uids collide")
	}
}

func TestCache_ReadAfterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	c := NewCache(path, func() time.Time { return now })

	entry := Entry{
		GeneratedAt: now,
		Insights:    []Card{{Type: TrendUp, Title: "t", Description: "d"}},
	}
	if err := c.Write("k1", entry); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok := c.Read("k1", time.Hour)
	if !ok {
		t.Fatal("Read missed after Write")
	}
	if len(got.Insights) != 1 || got.Insights[0].Title != "t" {
		t.Errorf("entry = %+v", got)
	}
}

func TestCache_SurvivesProcessRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	writer := NewCache(path, clock)
	if err := writer.Write("k1", Entry{GeneratedAt: now, Insights: []Card{{Type: PowerUser, Title: "t"}}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// A fresh cache instance reads back through the file.
	reader := NewCache(path, clock)
	if _, ok := reader.Read("k1", time.Hour); !ok {
		t.Error("entry not readable from a fresh cache instance")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	c := NewCache(path, func() time.Time { return now })

	if err := c.Write("k1", Entry{GeneratedAt: now.Add(-2 * time.Hour)}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, ok := c.Read("k1", time.Hour); ok {
		t.Error("stale entry should miss")
	}
	if _, ok := c.Read("k1", 3*time.Hour); !ok {
		t.Error("entry within a longer TTL should hit")
	}
}

func TestCache_WritePreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := NewCache(path, clock)
	if err := c.Write("k1", Entry{GeneratedAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := c.Write("k2", Entry{GeneratedAt: now}); err != nil {
		t.Fatal(err)
	}

	fresh := NewCache(path, clock)
	if _, ok := fresh.Read("k1", time.Hour); !ok {
		t.Error("k1 was clobbered by the k2 write")
	}
	if _, ok := fresh.Read("k2", time.Hour); !ok {
		t.Error("k2 missing")
	}
}

func TestCache_CorruptFileIsAMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(path, nil)
	if _, ok := c.Read("k1", time.Hour); ok {
		t.Error("corrupt file should read as a miss")
	}

	// And a write through the corrupt file still succeeds.
	if err := c.Write("k1", Entry{GeneratedAt: time.Now()}); err != nil {
		t.Errorf("Write over corrupt file: %v", err)
	}
}
