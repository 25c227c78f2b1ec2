package aggregate

import (
	"math"
	"time"

	"github.com/blackwell-systems/teamlens/internal/event"
)

// WindowPair holds the comparison windows for one aggregation call. Both are
// closed intervals anchored at the latest event timestamp, so stale fixtures
// still split deterministically.
type WindowPair struct {
	Current  []event.Event
	Previous []event.Event
}

// Split derives adjacent, non-overlapping current/previous windows of
// period-many days each, ending at the newest event in the input.
func Split(events []event.Event, period Period) WindowPair {
	if len(events) == 0 {
		return WindowPair{}
	}

	days := period.Days()

	anchor := events[0].Time
	for _, e := range events[1:] {
		if e.Time.After(anchor) {
			anchor = e.Time
		}
	}

	currentStart := anchor.AddDate(0, 0, -(days - 1))
	previousStart := currentStart.AddDate(0, 0, -days)
	previousEnd := currentStart.Add(-time.Millisecond)

	var pair WindowPair
	for _, e := range events {
		switch {
		case !e.Time.Before(currentStart) && !e.Time.After(anchor):
			pair.Current = append(pair.Current, e)
		case !e.Time.Before(previousStart) && !e.Time.After(previousEnd):
			pair.Previous = append(pair.Previous, e)
		}
	}
	return pair
}

// ChangeRate is the period-over-period percentage change, rounded to one
// decimal. By convention it is 0 when both counts are zero and a flat 100
// when only the previous count is zero.
func ChangeRate(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
