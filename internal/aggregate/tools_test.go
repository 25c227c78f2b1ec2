package aggregate

import (
	"testing"
	"time"

	"github.com/blackwell-systems/teamlens/internal/event"
)

func toolEvent(typ, ts string, mutate func(*event.Event)) event.Event {
	at, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	e := event.Event{Type: typ, TS: ts, Time: at, UID: "u1"}
	if mutate != nil {
		mutate(&e)
	}
	return e
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"skills", "subagents", "mcp", "commands"} {
		if _, err := ParseCategory(valid); err != nil {
			t.Errorf("ParseCategory(%q) error: %v", valid, err)
		}
	}
	if _, err := ParseCategory("tools"); err == nil {
		t.Error("ParseCategory(\"tools\") should fail")
	}
}

func TestByToolCategory_Skills(t *testing.T) {
	events := []event.Event{
		toolEvent(event.TypeUserPrompt, "2026-08-14T09:00:00Z", func(e *event.Event) {
			e.IsSkill = true
			e.SkillName = "commit"
		}),
		toolEvent(event.TypeUserPrompt, "2026-08-14T10:00:00Z", func(e *event.Event) {
			e.IsSkill = true
			e.SkillName = "commit"
		}),
		toolEvent(event.TypeUserPrompt, "2026-08-14T10:30:00Z", func(e *event.Event) {
			e.IsSkill = true
		}),
		// Plain prompts are not skills.
		toolEvent(event.TypeUserPrompt, "2026-08-14T11:00:00Z", nil),
	}

	analysis := ByToolCategory(events, CategorySkills)

	if analysis.Category != CategorySkills {
		t.Errorf("Category = %q", analysis.Category)
	}
	if analysis.Total != 3 {
		t.Errorf("Total = %d, want 3", analysis.Total)
	}
	if len(analysis.Ranking) != 2 {
		t.Fatalf("Ranking = %+v", analysis.Ranking)
	}
	if analysis.Ranking[0].Name != "commit" || analysis.Ranking[0].Count != 2 {
		t.Errorf("Ranking[0] = %+v", analysis.Ranking[0])
	}
	// A missing skill name falls back to the generic key.
	if analysis.Ranking[1].Name != "skill" {
		t.Errorf("Ranking[1] = %+v, want the \"skill\" fallback", analysis.Ranking[1])
	}
}

func TestByToolCategory_SubagentsIncludesBothShapes(t *testing.T) {
	events := []event.Event{
		toolEvent(event.TypeSubagentStart, "2026-08-14T09:00:00Z", func(e *event.Event) {
			e.AgentType = "code-reviewer"
		}),
		toolEvent(event.TypeToolUse, "2026-08-14T10:00:00Z", func(e *event.Event) {
			e.Category = event.CategorySubagent
			e.Detail = "code-reviewer"
		}),
	}

	analysis := ByToolCategory(events, CategorySubagents)

	if analysis.Total != 2 {
		t.Errorf("Total = %d, want 2", analysis.Total)
	}
	if len(analysis.Ranking) != 1 || analysis.Ranking[0].Count != 2 {
		t.Errorf("Ranking = %+v, want both shapes merged under one key", analysis.Ranking)
	}
}

func TestByToolCategory_TrendIsHourly(t *testing.T) {
	events := []event.Event{
		toolEvent(event.TypeToolUse, "2026-08-13T09:15:00Z", func(e *event.Event) {
			e.Category = event.CategoryMCP
			e.Detail = "mcp__jira__search"
		}),
		toolEvent(event.TypeToolUse, "2026-08-14T09:45:00Z", func(e *event.Event) {
			e.Category = event.CategoryMCP
			e.Detail = "mcp__jira__search"
		}),
		toolEvent(event.TypeToolUse, "2026-08-14T14:00:00Z", func(e *event.Event) {
			e.Category = event.CategoryMCP
			e.Detail = "mcp__github__pr"
		}),
	}

	analysis := ByToolCategory(events, CategoryMCP)

	// Hour-of-day buckets merge across days.
	want := []TrendPoint{
		{Time: "09:00", Count: 2},
		{Time: "14:00", Count: 1},
	}
	if len(analysis.Trend) != len(want) {
		t.Fatalf("Trend = %+v", analysis.Trend)
	}
	for i := range want {
		if analysis.Trend[i] != want[i] {
			t.Errorf("Trend[%d] = %+v, want %+v", i, analysis.Trend[i], want[i])
		}
	}
}

func TestByToolCategory_DistributionCapsAtSeven(t *testing.T) {
	var events []event.Event
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for i, name := range names {
		for j := 0; j <= i; j++ {
			events = append(events, toolEvent(event.TypeToolUse, "2026-08-14T09:00:00Z", func(e *event.Event) {
				e.Category = event.CategoryBash
				e.Detail = name
			}))
		}
	}

	analysis := ByToolCategory(events, CategoryCommands)

	// Seven named slices plus the remainder.
	if len(analysis.Distribution) != 8 {
		t.Errorf("Distribution = %d slices, want 8", len(analysis.Distribution))
	}
	if analysis.Distribution[7].Name != "other" {
		t.Errorf("Distribution[7].Name = %q, want other", analysis.Distribution[7].Name)
	}
	// The ranking keeps its own top-10 cap.
	if len(analysis.Ranking) != 9 {
		t.Errorf("Ranking = %d rows, want 9", len(analysis.Ranking))
	}
}
