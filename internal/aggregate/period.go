// Package aggregate computes time-windowed usage analytics: comparison
// windows, KPI counters, sparklines, trends, distributions, and per-user
// rollups.
package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// Period is a named preset window length.
type Period string

// The four supported periods. All splits like 30D but retrieves ten years
// of partitions.
const (
	Period1D  Period = "1D"
	Period7D  Period = "7D"
	Period30D Period = "30D"
	PeriodAll Period = "All"
)

// Days returns the window length used for current/previous splitting.
func (p Period) Days() int {
	switch p {
	case Period1D:
		return 1
	case Period7D:
		return 7
	case Period30D:
		return 30
	default:
		return 30
	}
}

// RetrievalDays returns how many calendar days of partitions a period pulls
// from the log store.
func (p Period) RetrievalDays() int {
	if p == PeriodAll {
		return 3650
	}
	return p.Days()
}

// ParsePeriod parses a user-supplied period name.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "1d":
		return Period1D, nil
	case "7d":
		return Period7D, nil
	case "30d":
		return Period30D, nil
	case "all":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("unknown period %q (want 1D, 7D, 30D, or all)", s)
}

// PeriodForRange infers the period that best matches an explicit date range.
func PeriodForRange(start, end time.Time) Period {
	days := RangeDays(start, end)
	switch {
	case days <= 1:
		return Period1D
	case days <= 7:
		return Period7D
	case days <= 30:
		return Period30D
	default:
		return PeriodAll
	}
}

// RangeDays returns the calendar-day span of [start, end], counting partial
// days as whole ones.
func RangeDays(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days + 1
}
