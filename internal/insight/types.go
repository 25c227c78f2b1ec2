// Package insight produces short typed summaries from usage aggregates,
// either through the Gemini API or a deterministic rule-based fallback, and
// caches the results content-addressed with a TTL.
package insight

import (
	"context"
	"strings"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
)

// CardType classifies an insight card.
type CardType string

const (
	TrendUp        CardType = "TREND_UP"
	TrendDown      CardType = "TREND_DOWN"
	PowerUser      CardType = "POWER_USER"
	UsecaseInsight CardType = "USECASE_INSIGHT"
)

// Card is one human-readable insight. Both the external generator and the
// fallback produce this shape.
type Card struct {
	Type        CardType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Response is what the query surface returns for an insight request.
type Response struct {
	GeneratedAt string `json:"generatedAt"`
	Insights    []Card `json:"insights"`
	Cached      bool   `json:"cached"`
}

// normalizeType maps free-form generator output onto a known card type.
// Unknown values become USECASE_INSIGHT.
func normalizeType(s string) CardType {
	switch CardType(strings.ReplaceAll(strings.ToUpper(s), " ", "_")) {
	case TrendUp:
		return TrendUp
	case TrendDown:
		return TrendDown
	case PowerUser:
		return PowerUser
	default:
		return UsecaseInsight
	}
}

// TeamPayload is the aggregate snapshot handed to the generator for
// team-wide insights.
type TeamPayload struct {
	Period   aggregate.Period        `json:"period"`
	KPIs     aggregate.KPISummary    `json:"kpis"`
	TopUsers []aggregate.UserSummary `json:"topUsers"`
}

// CategoryShare is a tool-category name with its percentage share.
type CategoryShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// UserPayload is the per-user snapshot handed to the generator for
// individual insights.
type UserPayload struct {
	Name           string                 `json:"name"`
	TotalEvents    int                    `json:"totalEvents"`
	Sessions       int                    `json:"sessions"`
	TopTools       []aggregate.RankEntry  `json:"topTools"`
	Projects       []aggregate.RankEntry  `json:"projects"`
	ToolCategories []CategoryShare        `json:"toolCategories"`
	HourlyActivity [24]int                `json:"hourlyActivity"`
	DailyTrend     []aggregate.TrendPoint `json:"dailyTrend"`
}

// Generator produces insight cards from aggregated data. Implementations may
// fail; callers substitute the deterministic fallback set.
type Generator interface {
	GenerateTeam(ctx context.Context, payload TeamPayload, maxCards int) ([]Card, error)
	GenerateUser(ctx context.Context, payload UserPayload, maxCards int) ([]Card, error)
}
