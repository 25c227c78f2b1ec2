package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blackwell-systems/teamlens/internal/logstore"
)

// Entry is one cached insight set.
type Entry struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Insights    []Card    `json:"insights"`
}

// TeamKey content-addresses a team-scoped window.
func TeamKey(start, end time.Time) string {
	return digest(fmt.Sprintf("%s|%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)))
}

// UserKey content-addresses a user-scoped window. The scope prefix keeps user
// keys disjoint from team keys.
func UserKey(uid string, start, end time.Time) string {
	return digest(fmt.Sprintf("user:%s|%s|%s", uid, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)))
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Cache stores insight entries keyed by digest, in memory plus a single JSON
// file. Entries are superseded on rewrite, never deleted; staleness is purely
// TTL-based and pruning is external housekeeping.
type Cache struct {
	path string
	now  logstore.Clock

	mu  sync.Mutex
	mem map[string]Entry
}

// NewCache creates a cache backed by the JSON file at path. A nil clock uses
// time.Now.
func NewCache(path string, now logstore.Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		path: path,
		now:  now,
		mem:  make(map[string]Entry),
	}
}

// Read returns the entry for key if it exists and is younger than ttl.
// Unreadable or corrupt cache content is a miss, never an error.
func (c *Cache) Read(key string, ttl time.Duration) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.mem[key]; ok && c.fresh(e, ttl) {
		return e, true
	}

	stored := c.readFile()
	if e, ok := stored[key]; ok && c.fresh(e, ttl) {
		c.mem[key] = e
		return e, true
	}
	return Entry{}, false
}

// Write upserts the entry for key. Other keys in the file are preserved;
// concurrent writers for the same key race benignly (last writer wins, both
// derive from the same aggregation).
func (c *Cache) Write(key string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem[key] = e

	stored := c.readFile()
	stored[key] = e

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

func (c *Cache) fresh(e Entry, ttl time.Duration) bool {
	return c.now().Sub(e.GeneratedAt) <= ttl
}

// readFile loads the backing file, treating a missing or corrupt file as
// empty.
func (c *Cache) readFile() map[string]Entry {
	stored := make(map[string]Entry)
	data, err := os.ReadFile(c.path)
	if err != nil {
		return stored
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return make(map[string]Entry)
	}
	return stored
}
