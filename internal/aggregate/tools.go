package aggregate

import (
	"fmt"

	"github.com/blackwell-systems/teamlens/internal/event"
)

// Category scopes tool analysis to one kind of usage.
type Category string

const (
	CategorySkills    Category = "skills"
	CategorySubagents Category = "subagents"
	CategoryMCP       Category = "mcp"
	CategoryCommands  Category = "commands"
)

// ParseCategory validates a user-supplied analysis category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategorySkills, CategorySubagents, CategoryMCP, CategoryCommands:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q (want skills, subagents, mcp, or commands)", s)
}

// distributionTopN caps named slices in the tool-category distribution;
// everything past it folds into the remainder bucket.
const distributionTopN = 7

// ToolAnalysis is the category-scoped usage breakdown.
type ToolAnalysis struct {
	Category     Category            `json:"category"`
	Total        int                 `json:"total"`
	Trend        []TrendPoint        `json:"trend"`
	Distribution []DistributionEntry `json:"distribution"`
	Ranking      []RankEntry         `json:"ranking"`
}

// ByToolCategory selects events belonging to the category, counts them by
// their natural key, and builds the trend, distribution, and ranking.
func ByToolCategory(events []event.Event, category Category) ToolAnalysis {
	counter := NewCounter()
	var selected []event.Event

	for _, e := range events {
		key, ok := categoryKey(e, category)
		if !ok {
			continue
		}
		counter.Add(key)
		selected = append(selected, e)
	}

	distribution, ranking := Distribution(counter, distributionTopN)

	return ToolAnalysis{
		Category:     category,
		Total:        len(selected),
		Trend:        Trend(selected, GranularityHour),
		Distribution: distribution,
		Ranking:      ranking,
	}
}

// categoryKey reports whether the event belongs to the category and, if so,
// the key it is counted under.
func categoryKey(e event.Event, category Category) (string, bool) {
	switch category {
	case CategorySkills:
		if e.Type == event.TypeUserPrompt && e.IsSkill {
			return firstNonEmpty(e.SkillName, "skill"), true
		}
	case CategorySubagents:
		if e.Type == event.TypeSubagentStart ||
			(e.Type == event.TypeToolUse && e.Category == event.CategorySubagent) {
			return firstNonEmpty(e.AgentType, e.Detail, "subagent"), true
		}
	case CategoryMCP:
		if e.Type == event.TypeToolUse && e.Category == event.CategoryMCP {
			return firstNonEmpty(e.Detail, "mcp"), true
		}
	case CategoryCommands:
		if e.Type == event.TypeToolUse && e.Category == event.CategoryBash {
			return firstNonEmpty(e.Detail, "command"), true
		}
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
