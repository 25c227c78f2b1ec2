package event

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshalJSON(t *testing.T) {
	line := `{"event":"tool_use","ts":"2026-08-14T09:00:00Z","sid":"s1","uid":"u1","category":"mcp","tool":"mcp__github__search","detail":"search issues","trace_id":"abc123"}`

	var e Event
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if e.Type != TypeToolUse {
		t.Errorf("Type = %q", e.Type)
	}
	if e.Category != CategoryMCP {
		t.Errorf("Category = %q", e.Category)
	}
	if e.Time.IsZero() {
		t.Error("Time was not parsed")
	}
	if want := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC); !e.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", e.Time, want)
	}

	// Unmodeled fields survive in Extra.
	if _, ok := e.Extra["trace_id"]; !ok {
		t.Errorf("Extra = %v, want trace_id preserved", e.Extra)
	}
	if _, ok := e.Extra["tool"]; ok {
		t.Error("known field leaked into Extra")
	}
}

func TestUnmarshalJSON_NoExtras(t *testing.T) {
	var e Event
	if err := json.Unmarshal([]byte(`{"event":"session_start","ts":"2026-08-14T09:00:00Z"}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Extra != nil {
		t.Errorf("Extra = %v, want nil", e.Extra)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"complete", `{"event":"user_prompt","ts":"2026-08-14T09:00:00Z"}`, true},
		{"missing type", `{"ts":"2026-08-14T09:00:00Z"}`, false},
		{"missing timestamp", `{"event":"user_prompt"}`, false},
		{"garbage timestamp", `{"event":"user_prompt","ts":"yesterday"}`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var e Event
			if err := json.Unmarshal([]byte(tc.line), &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := e.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"rfc3339", "2026-08-14T09:00:00Z", false},
		{"rfc3339 nano", "2026-08-14T09:00:00.123456789Z", false},
		{"offset", "2026-08-14T18:00:00+09:00", false},
		{"no timezone", "2026-08-14T09:00:00", false},
		{"date only", "2026-08-14", true},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTimestamp(tc.input)
			if got.IsZero() != tc.zero {
				t.Errorf("ParseTimestamp(%q) = %v, want zero=%v", tc.input, got, tc.zero)
			}
		})
	}
}
