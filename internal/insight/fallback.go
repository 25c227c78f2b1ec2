package insight

import (
	"fmt"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
)

// TeamFallback synthesizes the rule-based team insight set from locally
// computed aggregates. It never fails; when the generator is unreachable the
// request still succeeds with these cards.
func TeamFallback(kpi aggregate.KPISummary, users []aggregate.UserSummary, maxCards int) []Card {
	leaderDesc := "Not enough data."
	if len(users) > 0 {
		leaderDesc = fmt.Sprintf("%s leads the team with a total of %d actions.", users[0].Name, users[0].Total)
	}

	cards := []Card{
		{
			Type:        TrendUp,
			Title:       "MCP call trend",
			Description: fmt.Sprintf("%.1f%% change vs the previous period (now %d).", kpi.MCPCalls.ChangeRate, kpi.MCPCalls.Current),
		},
		{
			Type:        TrendDown,
			Title:       "Subagent usage trend",
			Description: fmt.Sprintf("%.1f%% change vs the previous period (now %d).", kpi.Subagents.ChangeRate, kpi.Subagents.Current),
		},
		{
			Type:        PowerUser,
			Title:       "Most active user",
			Description: leaderDesc,
		},
		{
			Type:        UsecaseInsight,
			Title:       "Skill adoption",
			Description: fmt.Sprintf("Skill executions at %d (%.1f%% vs the previous period).", kpi.Skills.Current, kpi.Skills.ChangeRate),
		},
		{
			Type:        TrendUp,
			Title:       "Message activity",
			Description: fmt.Sprintf("%d messages with an active-user rate of %.1f%%.", kpi.Messages.Current, kpi.ActiveUsers.Rate),
		},
	}

	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	return cards
}

// UserFallback synthesizes the rule-based per-user insight set.
func UserFallback(detail aggregate.UserDetail) []Card {
	toolDesc := "Not enough data."
	if len(detail.TopTools) > 0 {
		top := detail.TopTools[0]
		toolDesc = fmt.Sprintf("%q is the most used tool (%d calls).", top.Name, top.Count)
	}

	projectDesc := "Not enough data."
	if len(detail.Projects) > 0 {
		top := detail.Projects[0]
		projectDesc = fmt.Sprintf("Most activity happens in %q (%d events).", top.Name, top.Count)
	}

	return []Card{
		{
			Type:        UsecaseInsight,
			Title:       "Usage summary",
			Description: fmt.Sprintf("%d events across %d sessions.", detail.TotalEvents, detail.Sessions),
		},
		{
			Type:        TrendUp,
			Title:       "Favorite tool",
			Description: toolDesc,
		},
		{
			Type:        UsecaseInsight,
			Title:       "Primary project",
			Description: projectDesc,
		},
	}
}
