// Package logstore reads date-partitioned usage-event logs from one or more
// sources and produces validated, range-filtered event lists.
package logstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Source.Fetch when a partition does not exist.
// A missing partition contributes zero events; it is never fatal.
var ErrNotFound = errors.New("logstore: partition not found")

// Source addresses raw newline-delimited log content by (descriptor, dateKey).
// The empty descriptor names the legacy shared location; non-empty descriptors
// are per-user partitions.
type Source interface {
	// Descriptors resolves the logical sub-sources once per load.
	Descriptors(ctx context.Context) ([]string, error)

	// Fetch returns the raw partition content for one calendar day, or
	// ErrNotFound.
	Fetch(ctx context.Context, descriptor, dateKey string) ([]byte, error)
}

// listTTL bounds how long directory listings and file contents are reused
// between loads.
const listTTL = 5 * time.Minute

// DirSource reads the multi-user filesystem layout:
//
//	{root}/{uid}/{date}.jsonl   per-user daily partitions
//	{root}/{date}.jsonl         legacy flat partitions
type DirSource struct {
	root  string
	dirs  *TTLCache[[]string]
	files *TTLCache[[]byte]
}

// NewDirSource creates a DirSource rooted at dir. A nil clock uses time.Now.
func NewDirSource(dir string, now Clock) *DirSource {
	return &DirSource{
		root:  dir,
		dirs:  NewTTLCache[[]string](listTTL, now),
		files: NewTTLCache[[]byte](listTTL, now),
	}
}

// Descriptors returns one descriptor per user directory plus the legacy root
// (""). An unreadable root degrades to the legacy root alone.
func (s *DirSource) Descriptors(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if uids, ok := s.dirs.Get(s.root); ok {
		return withLegacyRoot(uids), nil
	}

	var uids []string
	entries, err := os.ReadDir(s.root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				uids = append(uids, e.Name())
			}
		}
	}
	s.dirs.Set(s.root, uids)

	return withLegacyRoot(uids), nil
}

// withLegacyRoot copies uids before appending so concurrent loads never
// share the cached slice's backing array.
func withLegacyRoot(uids []string) []string {
	out := make([]string, 0, len(uids)+1)
	out = append(out, uids...)
	return append(out, "")
}

// Fetch reads one daily partition. Content is cached per path so repeated
// aggregations over overlapping ranges do not re-read the same files.
func (s *DirSource) Fetch(ctx context.Context, descriptor, dateKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, dateKey+".jsonl")
	if descriptor != "" {
		path = filepath.Join(s.root, descriptor, dateKey+".jsonl")
	}

	if data, ok := s.files.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.files.Set(path, data)
	return data, nil
}

// DateKey formats a time as the partition name for its UTC calendar day.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
