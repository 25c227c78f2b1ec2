package logstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/teamlens/internal/event"
)

// fetchConcurrency caps in-flight partition fetches per load.
const fetchConcurrency = 8

// LoadStats counts what a load saw and what it dropped.
type LoadStats struct {
	Partitions int // partitions that existed and were read
	Lines      int // non-empty lines seen
	Skipped    int // malformed or invalid lines dropped
}

// Loader reads every daily partition covering a date range, in parallel
// across sources, and returns the concatenated, validated, range-filtered
// events.
type Loader struct {
	src     Source
	timeout time.Duration
}

// NewLoader creates a Loader over src. A non-zero timeout bounds each Load.
func NewLoader(src Source, timeout time.Duration) *Loader {
	return &Loader{src: src, timeout: timeout}
}

// Load returns all valid events with timestamps in [start, end]. Missing
// partitions and fetch failures contribute nothing; only context failure is
// an error.
func (l *Loader) Load(ctx context.Context, start, end time.Time) ([]event.Event, LoadStats, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	descriptors, err := l.src.Descriptors(ctx)
	if err != nil {
		return nil, LoadStats{}, err
	}

	type task struct {
		descriptor string
		dateKey    string
	}

	var tasks []task
	startDay := start.UTC().Truncate(24 * time.Hour)
	endDay := end.UTC().Truncate(24 * time.Hour)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		for _, d := range descriptors {
			tasks = append(tasks, task{descriptor: d, dateKey: DateKey(day)})
		}
	}

	// Results are collected by index so concatenation order is stable
	// regardless of fetch completion order.
	results := make([][]event.Event, len(tasks))
	partStats := make([]LoadStats, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, t := range tasks {
		g.Go(func() error {
			data, err := l.src.Fetch(gctx, t.descriptor, t.dateKey)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil
				}
				// A failed source degrades to an empty contribution
				// unless the whole load was cancelled.
				return gctx.Err()
			}
			events, stats := ParseLines(data)
			results[i] = events
			stats.Partitions = 1
			partStats[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LoadStats{}, err
	}

	var stats LoadStats
	var all []event.Event
	for i := range tasks {
		all = append(all, results[i]...)
		stats.Partitions += partStats[i].Partitions
		stats.Lines += partStats[i].Lines
		stats.Skipped += partStats[i].Skipped
	}

	return FilterByRange(all, start, end), stats, nil
}

// ParseLines decodes newline-delimited event records, dropping lines that
// fail to parse or fail validation.
func ParseLines(data []byte) ([]event.Event, LoadStats) {
	var events []event.Event
	var stats LoadStats

	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Allow long records (large prompts serialized into detail fields).
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil {
			stats.Skipped++
			continue
		}
		if !e.Valid() {
			stats.Skipped++
			continue
		}
		events = append(events, e)
	}

	return events, stats
}

// FilterByRange keeps events with timestamps in the closed interval
// [start, end].
func FilterByRange(events []event.Event, start, end time.Time) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.Time.Before(start) || e.Time.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterByUser keeps events belonging to one user.
func FilterByUser(events []event.Event, uid string) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.UID == uid {
			out = append(out, e)
		}
	}
	return out
}
