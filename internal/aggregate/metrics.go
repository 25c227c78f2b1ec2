package aggregate

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/blackwell-systems/teamlens/internal/event"
)

// MetricKind names one of the tracked KPI counters. Dispatch is a total
// switch over this enumeration, so adding a metric is a compile-time change.
type MetricKind int

const (
	MetricSkills MetricKind = iota
	MetricSubagents
	MetricMCP
	MetricMessages
	MetricSessions
)

// Match reports whether a single event counts toward the metric.
func (k MetricKind) Match(e event.Event) bool {
	switch k {
	case MetricSkills:
		return e.Type == event.TypeUserPrompt && e.IsSkill
	case MetricSubagents:
		return e.Type == event.TypeSubagentStart ||
			(e.Type == event.TypeToolUse && e.Category == event.CategorySubagent)
	case MetricMCP:
		return e.Type == event.TypeToolUse && e.Category == event.CategoryMCP
	case MetricMessages:
		return e.Type == event.TypeUserPrompt
	case MetricSessions:
		return e.Type == event.TypeSessionStart
	}
	return false
}

// CountMetric counts events in a window matching the metric predicate.
func CountMetric(events []event.Event, kind MetricKind) int {
	n := 0
	for _, e := range events {
		if kind.Match(e) {
			n++
		}
	}
	return n
}

// SparklineBuckets is the fixed histogram width of KPI sparklines.
const SparklineBuckets = 12

// Sparkline buckets matching events by whole days before now (wall clock,
// not the window anchor), most recent bucket last. Empty days stay zero.
func Sparkline(events []event.Event, days int, kind MetricKind, now time.Time) []int {
	buckets := make([]int, days)
	for _, e := range events {
		// Integer division truncates toward zero, so a timestamp after now
		// would otherwise land in the most-recent bucket.
		d := now.Sub(e.Time)
		if d < 0 {
			continue
		}
		delta := int(d / (24 * time.Hour))
		if delta >= days {
			continue
		}
		if kind.Match(e) {
			buckets[days-1-delta]++
		}
	}
	return buckets
}

// Granularity selects trend bucketing.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityDay
)

// TrendPoint is one populated trend bucket.
type TrendPoint struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// Trend groups events by UTC hour-of-day ("HH:00") or calendar day
// ("YYYY-MM-DD"). Keys sort lexicographically, which is chronological for
// both granularities.
func Trend(events []event.Event, g Granularity) []TrendPoint {
	counts := make(map[string]int)
	for _, e := range events {
		var key string
		if g == GranularityHour {
			key = e.Time.UTC().Format("15") + ":00"
		} else {
			key = e.Time.UTC().Format("2006-01-02")
		}
		counts[key]++
	}

	keys := lo.Keys(counts)
	sort.Strings(keys)

	points := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, TrendPoint{Time: k, Count: counts[k]})
	}
	return points
}

// KPIBucket is one period-over-period counter with its sparkline.
type KPIBucket struct {
	Current    int     `json:"current"`
	Previous   int     `json:"previous"`
	ChangeRate float64 `json:"changeRate"`
	Sparkline  []int   `json:"sparkline"`
}

// ActiveUsers summarizes distinct users in the current window against the
// whole input set.
type ActiveUsers struct {
	Active int     `json:"active"`
	Total  int     `json:"total"`
	Rate   float64 `json:"rate"`
}

// KPISummary is the full KPI panel for one window pair.
type KPISummary struct {
	Skills      KPIBucket   `json:"skills"`
	Subagents   KPIBucket   `json:"subagents"`
	MCPCalls    KPIBucket   `json:"mcpCalls"`
	Messages    KPIBucket   `json:"messages"`
	ActiveUsers ActiveUsers `json:"activeUsers"`
	Sessions    KPIBucket   `json:"sessions"`
}

// KPIs splits events by period and computes every KPI bucket. The sparklines
// are bucketed against now, which is deliberately independent of the window
// anchor.
func KPIs(events []event.Event, period Period, now time.Time) KPISummary {
	pair := Split(events, period)

	totalUsers := len(lo.Uniq(lo.Map(events, func(e event.Event, _ int) string { return e.UID })))
	activeUsers := len(lo.Uniq(lo.Map(pair.Current, func(e event.Event, _ int) string { return e.UID })))

	rate := 0.0
	if totalUsers > 0 {
		rate = round1(float64(activeUsers) / float64(totalUsers) * 100)
	}

	bucket := func(kind MetricKind) KPIBucket {
		cur := CountMetric(pair.Current, kind)
		prev := CountMetric(pair.Previous, kind)
		return KPIBucket{
			Current:    cur,
			Previous:   prev,
			ChangeRate: ChangeRate(cur, prev),
			Sparkline:  Sparkline(pair.Current, SparklineBuckets, kind, now),
		}
	}

	return KPISummary{
		Skills:      bucket(MetricSkills),
		Subagents:   bucket(MetricSubagents),
		MCPCalls:    bucket(MetricMCP),
		Messages:    bucket(MetricMessages),
		ActiveUsers: ActiveUsers{Active: activeUsers, Total: totalUsers, Rate: rate},
		Sessions:    bucket(MetricSessions),
	}
}
