// Package profile resolves user IDs to display names from per-user profile
// files stored alongside the logs.
package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/teamlens/internal/logstore"
)

// Profile is the registration record written by the usage hooks.
type Profile struct {
	UID          string `json:"uid"`
	GitName      string `json:"git_name,omitempty"`
	GitEmail     string `json:"git_email,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
	OS           string `json:"os,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
}

// legacyProfileFile is the single-user profile from before per-user
// directories existed.
const legacyProfileFile = "user-profile.json"

const cacheTTL = 5 * time.Minute

// Store reads profiles from {root}/{uid}/profile.json plus the legacy root
// profile, caching the resolved map for a few minutes.
type Store struct {
	root  string
	cache *logstore.TTLCache[map[string]Profile]
}

// NewStore creates a Store rooted at dir. A nil clock uses time.Now.
func NewStore(dir string, now logstore.Clock) *Store {
	return &Store{
		root:  dir,
		cache: logstore.NewTTLCache[map[string]Profile](cacheTTL, now),
	}
}

// All returns every readable profile keyed by uid. Unreadable or malformed
// profiles are skipped.
func (s *Store) All() map[string]Profile {
	if m, ok := s.cache.Get(s.root); ok {
		return m
	}

	m := make(map[string]Profile)

	entries, err := os.ReadDir(s.root)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if p, ok := readProfile(filepath.Join(s.root, e.Name(), "profile.json")); ok {
				m[p.UID] = p
			}
		}
	}
	if p, ok := readProfile(filepath.Join(s.root, legacyProfileFile)); ok {
		m[p.UID] = p
	}

	s.cache.Set(s.root, m)
	return m
}

// ResolveName returns the display name for uid, or uid itself when no
// profile is known.
func (s *Store) ResolveName(uid string) string {
	if p, ok := s.All()[uid]; ok && p.GitName != "" {
		return p.GitName
	}
	return uid
}

func readProfile(path string) (Profile, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil || p.UID == "" {
		return Profile{}, false
	}
	return p, true
}
