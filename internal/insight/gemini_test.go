package insight

import (
	"context"
	"strings"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`, false},
		{"fenced in prose", "Here you go:\n```json\n[1, 2]\n```\nEnjoy!", "[1, 2]", false},
		{"no array", "sorry, I cannot help with that", "", true},
		{"reversed brackets", "] and then [", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONArray(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("extractJSONArray(%q) = %q, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractJSONArray(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("extractJSONArray(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	text := `Some preamble.
[
  {"type": "TREND_UP", "title": "MCP growth", "description": "up a lot", "metric": "mcp", "change_rate": 42.5},
  {"type": "trend down", "title": "Fewer subagents", "description": "down"},
  {"type": "SOMETHING_NEW", "title": "Pattern", "description": "interesting"}
]`

	cards, err := parseCards(text, 5)
	if err != nil {
		t.Fatalf("parseCards: %v", err)
	}

	if len(cards) != 3 {
		t.Fatalf("len = %d, want 3", len(cards))
	}
	if cards[0].Type != TrendUp || cards[0].Title != "MCP growth" {
		t.Errorf("cards[0] = %+v", cards[0])
	}
	// Free-form type spellings normalize.
	if cards[1].Type != TrendDown {
		t.Errorf("cards[1].Type = %q, want TREND_DOWN", cards[1].Type)
	}
	// Unknown types collapse to the generic insight.
	if cards[2].Type != UsecaseInsight {
		t.Errorf("cards[2].Type = %q, want USECASE_INSIGHT", cards[2].Type)
	}
}

func TestParseCards_CapsAtMax(t *testing.T) {
	text := `[{"type":"TREND_UP","title":"1"},{"type":"TREND_UP","title":"2"},{"type":"TREND_UP","title":"3"}]`

	cards, err := parseCards(text, 2)
	if err != nil {
		t.Fatalf("parseCards: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("len = %d, want 2", len(cards))
	}
}

func TestParseCards_MalformedArray(t *testing.T) {
	if _, err := parseCards(`[{"type": }]`, 5); err == nil {
		t.Error("malformed array should fail")
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		input string
		want  CardType
	}{
		{"TREND_UP", TrendUp},
		{"trend_up", TrendUp},
		{"Trend Down", TrendDown},
		{"POWER_USER", PowerUser},
		{"USECASE_INSIGHT", UsecaseInsight},
		{"whatever", UsecaseInsight},
		{"", UsecaseInsight},
	}

	for _, tc := range tests {
		if got := normalizeType(tc.input); got != tc.want {
			t.Errorf("normalizeType(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestGenerate_NoAPIKey(t *testing.T) {
	g := NewGeminiGenerator("", "", 0)

	_, err := g.GenerateTeam(context.Background(), TeamPayload{}, 5)
	if err == nil {
		t.Fatal("GenerateTeam without an API key should fail")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("error = %v, want an API key message", err)
	}
}

func TestBuildPrompts_EmbedPayload(t *testing.T) {
	team, err := buildTeamPrompt(TeamPayload{Period: "7D"}, 5)
	if err != nil {
		t.Fatalf("buildTeamPrompt: %v", err)
	}
	if !strings.Contains(team, `"period": "7D"`) {
		t.Error("team prompt does not embed the payload")
	}
	if !strings.Contains(team, "TREND_UP") {
		t.Error("team prompt does not describe the card types")
	}

	user, err := buildUserPrompt(UserPayload{Name: "alice"}, 3)
	if err != nil {
		t.Fatalf("buildUserPrompt: %v", err)
	}
	if !strings.Contains(user, `"name": "alice"`) {
		t.Error("user prompt does not embed the payload")
	}
}
