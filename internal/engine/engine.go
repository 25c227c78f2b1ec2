// Package engine exposes the range-bounded query surface over the log
// store, aggregation, profile, and insight layers. Every operation takes an
// explicit [start, end] instant pair so results are reproducible.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
	"github.com/blackwell-systems/teamlens/internal/event"
	"github.com/blackwell-systems/teamlens/internal/insight"
	"github.com/blackwell-systems/teamlens/internal/logstore"
	"github.com/blackwell-systems/teamlens/internal/profile"
)

// ErrInvalidRange rejects malformed or out-of-order date ranges before any
// aggregation runs. Ranges are never silently clamped.
var ErrInvalidRange = errors.New("invalid date range")

// ErrInvalidSort rejects unknown sort parameters.
var ErrInvalidSort = errors.New("invalid sort parameters")

// maxUserCards caps per-user insight sets.
const maxUserCards = 3

// Options configures a new Engine.
type Options struct {
	Loader    *logstore.Loader
	Profiles  *profile.Store
	Generator insight.Generator
	TeamCache *insight.Cache
	UserCache *insight.Cache

	// InsightTTL bounds cached insight freshness; MaxCards caps team sets.
	InsightTTL time.Duration
	MaxCards   int

	// Now is injected for tests. Nil means time.Now.
	Now logstore.Clock

	// Logf receives partial-failure diagnostics. Nil discards them.
	Logf func(format string, args ...any)
}

// Engine is constructed once per process and is safe for concurrent use:
// aggregation is pure with respect to its input events.
type Engine struct {
	loader    *logstore.Loader
	profiles  *profile.Store
	generator insight.Generator
	teamCache *insight.Cache
	userCache *insight.Cache
	ttl       time.Duration
	maxCards  int
	now       logstore.Clock
	logf      func(format string, args ...any)
}

// New creates an Engine from options.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	ttl := opts.InsightTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	maxCards := opts.MaxCards
	if maxCards <= 0 {
		maxCards = 5
	}
	return &Engine{
		loader:    opts.Loader,
		profiles:  opts.Profiles,
		generator: opts.Generator,
		teamCache: opts.TeamCache,
		userCache: opts.UserCache,
		ttl:       ttl,
		maxCards:  maxCards,
		now:       now,
		logf:      logf,
	}
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange, start, end)
	}
	return nil
}

// load reads [start, end] and reports drop counts through the diagnostic log.
func (e *Engine) load(ctx context.Context, start, end time.Time) ([]event.Event, error) {
	events, stats, err := e.loader.Load(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	if stats.Skipped > 0 {
		e.logf("logstore: skipped %d of %d lines across %d partitions", stats.Skipped, stats.Lines, stats.Partitions)
	}
	return events, nil
}

// KPIs aggregates the KPI panel for [start, end]. The load is widened
// backwards by the range length so the previous comparison window has data.
func (e *Engine) KPIs(ctx context.Context, start, end time.Time) (aggregate.KPISummary, error) {
	if err := validateRange(start, end); err != nil {
		return aggregate.KPISummary{}, err
	}

	days := aggregate.RangeDays(start, end)
	events, err := e.load(ctx, start.AddDate(0, 0, -days), end)
	if err != nil {
		return aggregate.KPISummary{}, err
	}

	period := aggregate.PeriodForRange(start, end)
	return aggregate.KPIs(events, period, e.now()), nil
}

// sortKeys are the accepted Users sort fields.
var sortKeys = map[string]func(a, b aggregate.UserSummary) int{
	"skill":      func(a, b aggregate.UserSummary) int { return a.Skill - b.Skill },
	"subagent":   func(a, b aggregate.UserSummary) int { return a.Subagent - b.Subagent },
	"mcp":        func(a, b aggregate.UserSummary) int { return a.MCP - b.MCP },
	"command":    func(a, b aggregate.UserSummary) int { return a.Command - b.Command },
	"message":    func(a, b aggregate.UserSummary) int { return a.Message - b.Message },
	"total":      func(a, b aggregate.UserSummary) int { return a.Total - b.Total },
	"lastActive": func(a, b aggregate.UserSummary) int { return strings.Compare(a.LastActive, b.LastActive) },
	"name":       func(a, b aggregate.UserSummary) int { return strings.Compare(a.Name, b.Name) },
}

// Users returns the per-user leaderboard for [start, end], sorted by any
// typed counter, last-active, or name.
func (e *Engine) Users(ctx context.Context, start, end time.Time, sortBy, sortOrder string) ([]aggregate.UserSummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	cmp, ok := sortKeys[sortBy]
	if !ok || (sortOrder != "asc" && sortOrder != "desc") {
		return nil, fmt.Errorf("%w: sort_by=%q sort_order=%q", ErrInvalidSort, sortBy, sortOrder)
	}

	events, err := e.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	users := aggregate.ByUser(events)
	for i := range users {
		users[i].Name = e.profiles.ResolveName(users[i].UID)
	}

	sort.SliceStable(users, func(i, j int) bool {
		c := cmp(users[i], users[j])
		if sortOrder == "asc" {
			return c < 0
		}
		return c > 0
	})
	return users, nil
}

// UserDetail returns one user's activity profile for [start, end].
func (e *Engine) UserDetail(ctx context.Context, uid string, start, end time.Time) (aggregate.UserDetail, error) {
	if err := validateRange(start, end); err != nil {
		return aggregate.UserDetail{}, err
	}

	events, err := e.load(ctx, start, end)
	if err != nil {
		return aggregate.UserDetail{}, err
	}

	detail := aggregate.DetailByUser(events, uid)
	detail.Name = e.profiles.ResolveName(uid)
	return detail, nil
}

// ToolAnalysis returns the category-scoped breakdown for [start, end].
func (e *Engine) ToolAnalysis(ctx context.Context, category aggregate.Category, start, end time.Time) (aggregate.ToolAnalysis, error) {
	if err := validateRange(start, end); err != nil {
		return aggregate.ToolAnalysis{}, err
	}

	events, err := e.load(ctx, start, end)
	if err != nil {
		return aggregate.ToolAnalysis{}, err
	}
	return aggregate.ByToolCategory(events, category), nil
}

// TeamInsights serves the team-wide insight set for [start, end], from cache
// when fresh, otherwise generated (falling back to the deterministic set) and
// cached.
func (e *Engine) TeamInsights(ctx context.Context, start, end time.Time) (insight.Response, error) {
	if err := validateRange(start, end); err != nil {
		return insight.Response{}, err
	}

	key := insight.TeamKey(start, end)
	if entry, ok := e.teamCache.Read(key, e.ttl); ok {
		return insight.Response{
			GeneratedAt: entry.GeneratedAt.UTC().Format(time.RFC3339),
			Insights:    entry.Insights,
			Cached:      true,
		}, nil
	}

	days := aggregate.RangeDays(start, end)
	events, err := e.load(ctx, start.AddDate(0, 0, -days), end)
	if err != nil {
		return insight.Response{}, err
	}

	period := aggregate.PeriodForRange(start, end)
	kpis := aggregate.KPIs(events, period, e.now())
	users := aggregate.ByUser(events)
	for i := range users {
		users[i].Name = e.profiles.ResolveName(users[i].UID)
	}

	topUsers := users
	if len(topUsers) > 5 {
		topUsers = topUsers[:5]
	}

	cards, err := e.generator.GenerateTeam(ctx, insight.TeamPayload{
		Period:   period,
		KPIs:     kpis,
		TopUsers: topUsers,
	}, e.maxCards)
	if err != nil {
		e.logf("insight: generator failed, using fallback: %v", err)
		cards = insight.TeamFallback(kpis, users, e.maxCards)
	}

	return e.finishInsights(e.teamCache, key, cards)
}

// UserInsights serves one user's insight set for [start, end]. The per-user
// card count is fixed at three.
func (e *Engine) UserInsights(ctx context.Context, uid string, start, end time.Time) (insight.Response, error) {
	if err := validateRange(start, end); err != nil {
		return insight.Response{}, err
	}

	key := insight.UserKey(uid, start, end)
	if entry, ok := e.userCache.Read(key, e.ttl); ok {
		return insight.Response{
			GeneratedAt: entry.GeneratedAt.UTC().Format(time.RFC3339),
			Insights:    entry.Insights,
			Cached:      true,
		}, nil
	}

	events, err := e.load(ctx, start, end)
	if err != nil {
		return insight.Response{}, err
	}

	detail := aggregate.DetailByUser(events, uid)
	detail.Name = e.profiles.ResolveName(uid)

	shares := make([]insight.CategoryShare, 0, len(detail.ToolCategories))
	for _, tc := range detail.ToolCategories {
		shares = append(shares, insight.CategoryShare{Name: tc.Name, Value: tc.Value})
	}

	cards, err := e.generator.GenerateUser(ctx, insight.UserPayload{
		Name:           detail.Name,
		TotalEvents:    detail.TotalEvents,
		Sessions:       detail.Sessions,
		TopTools:       detail.TopTools,
		Projects:       detail.Projects,
		ToolCategories: shares,
		HourlyActivity: detail.HourlyActivity,
		DailyTrend:     detail.DailyTrend,
	}, maxUserCards)
	if err != nil {
		e.logf("insight: generator failed, using fallback: %v", err)
		cards = insight.UserFallback(detail)
	}

	return e.finishInsights(e.userCache, key, cards)
}

// finishInsights persists a freshly generated card set and builds the
// response. A cache write failure is diagnostic only; the request still
// succeeds.
func (e *Engine) finishInsights(cache *insight.Cache, key string, cards []insight.Card) (insight.Response, error) {
	entry := insight.Entry{GeneratedAt: e.now().UTC(), Insights: cards}
	if err := cache.Write(key, entry); err != nil {
		e.logf("insight: cache write failed: %v", err)
	}
	return insight.Response{
		GeneratedAt: entry.GeneratedAt.Format(time.RFC3339),
		Insights:    cards,
		Cached:      false,
	}, nil
}
