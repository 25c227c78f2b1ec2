// Package event defines the usage-event record model shared by the loader
// and the aggregation layer.
package event

import (
	"encoding/json"
	"time"
)

// Event type discriminators emitted by the usage hooks.
const (
	TypeUserPrompt    = "user_prompt"
	TypeToolUse       = "tool_use"
	TypeSubagentStart = "subagent_start"
	TypeSessionStart  = "session_start"
)

// ToolCategory classifies a tool_use event.
type ToolCategory string

// Known tool categories. Anything else is treated as CategoryOther.
const (
	CategoryMCP      ToolCategory = "mcp"
	CategoryBash     ToolCategory = "bash"
	CategorySubagent ToolCategory = "subagent"
	CategoryOther    ToolCategory = "other"
)

// Event is one logged usage action. Only Type and TS are required; the rest
// depends on the event type. Fields the engine does not model are preserved
// in Extra so newer hook versions round-trip without loss.
type Event struct {
	Type    string `json:"event"`
	TS      string `json:"ts"`
	SID     string `json:"sid"`
	UID     string `json:"uid"`
	MID     string `json:"mid"`
	PMode   string `json:"pmode"`
	Project string `json:"project"`

	// tool_use fields.
	Category ToolCategory `json:"category"`
	Tool     string       `json:"tool"`
	Detail   string       `json:"detail"`

	// user_prompt fields.
	IsSkill   bool   `json:"is_skill"`
	SkillName string `json:"skill_name"`

	// subagent fields.
	AgentType string `json:"agent_type"`

	// Time is TS parsed once at decode. Zero when TS is absent or malformed.
	Time time.Time `json:"-"`

	// Extra holds unmodeled fields from the raw record.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the top-level keys decoded into typed Event fields.
var knownFields = map[string]bool{
	"event": true, "ts": true, "sid": true, "uid": true, "mid": true,
	"pmode": true, "project": true, "category": true, "tool": true,
	"detail": true, "is_skill": true, "skill_name": true, "agent_type": true,
}

// UnmarshalJSON decodes the known fields and stashes everything else in Extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*e = Event(a)
	e.Time = ParseTimestamp(e.TS)
	return nil
}

// Valid reports whether the record carries the two universally required
// fields: a type discriminator and a parseable timestamp.
func (e *Event) Valid() bool {
	return e.Type != "" && !e.Time.IsZero()
}

// ParseTimestamp parses an ISO-8601 timestamp, returning the zero time on
// failure.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			// Fallback for datetime strings without a timezone suffix.
			t, err = time.Parse("2006-01-02T15:04:05", s)
			if err != nil {
				return time.Time{}
			}
		}
	}
	return t
}
