package aggregate

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/blackwell-systems/teamlens/internal/event"
)

// jstOffset shifts hourly activity from UTC into the fixed deployment
// timezone (UTC+9). Host locale never participates.
const jstOffset = 9

// UserSummary is the per-user leaderboard row. Total is always the sum of
// the five typed counters.
type UserSummary struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	LastActive string `json:"lastActive"`
	Skill      int    `json:"skill"`
	Subagent   int    `json:"subagent"`
	MCP        int    `json:"mcp"`
	Command    int    `json:"command"`
	Message    int    `json:"message"`
	Total      int    `json:"total"`

	lastActiveAt time.Time
}

// ByUser rolls events up into one summary per uid, sorted by descending
// total. Name defaults to the uid; callers resolve display names separately.
func ByUser(events []event.Event) []UserSummary {
	byUID := make(map[string]*UserSummary)
	var order []string

	for _, e := range events {
		u, ok := byUID[e.UID]
		if !ok {
			u = &UserSummary{
				UID:          e.UID,
				Name:         e.UID,
				LastActive:   e.TS,
				lastActiveAt: e.Time,
			}
			byUID[e.UID] = u
			order = append(order, e.UID)
		}

		if e.Time.After(u.lastActiveAt) {
			u.lastActiveAt = e.Time
			u.LastActive = e.TS
		}

		if e.Type == event.TypeUserPrompt {
			u.Message++
			if e.IsSkill {
				u.Skill++
			}
		}
		if e.Type == event.TypeSubagentStart ||
			(e.Type == event.TypeToolUse && e.Category == event.CategorySubagent) {
			u.Subagent++
		}
		if e.Type == event.TypeToolUse && e.Category == event.CategoryMCP {
			u.MCP++
		}
		if e.Type == event.TypeToolUse && e.Category == event.CategoryBash {
			u.Command++
		}

		u.Total = u.Skill + u.Subagent + u.MCP + u.Command + u.Message
	}

	users := make([]UserSummary, 0, len(order))
	for _, uid := range order {
		users = append(users, *byUID[uid])
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Total > users[j].Total
	})
	return users
}

// SessionInfo is one reconstructed session: all events sharing a sid.
type SessionInfo struct {
	SID     string `json:"sid"`
	Start   string `json:"start"`
	Events  int    `json:"events"`
	Project string `json:"project"`

	startAt time.Time
}

// UserDetail is the deep per-user activity profile.
type UserDetail struct {
	UID            string              `json:"uid"`
	Name           string              `json:"name"`
	TotalEvents    int                 `json:"totalEvents"`
	Sessions       int                 `json:"sessions"`
	FirstSeen      string              `json:"firstSeen"`
	LastSeen       string              `json:"lastSeen"`
	Projects       []RankEntry         `json:"projects"`
	ToolCategories []DistributionEntry `json:"toolCategories"`
	HourlyActivity [24]int             `json:"hourlyActivity"`
	DailyTrend     []TrendPoint        `json:"dailyTrend"`
	RecentSessions []SessionInfo       `json:"recentSessions"`
	TopTools       []RankEntry         `json:"topTools"`
}

// DetailByUser filters to one user and computes the full activity profile.
// FirstSeen and LastSeen are empty strings when the user has no events.
func DetailByUser(events []event.Event, uid string) UserDetail {
	detail := UserDetail{UID: uid, Name: uid}

	var own []event.Event
	for _, e := range events {
		if e.UID == uid {
			own = append(own, e)
		}
	}

	detail.TotalEvents = len(own)
	detail.Sessions = len(lo.Uniq(lo.Map(own, func(e event.Event, _ int) string { return e.SID })))

	var first, last event.Event
	projects := NewCounter()
	categories := NewCounter()
	tools := NewCounter()
	sessions := make(map[string]*SessionInfo)
	var sessionOrder []string

	for _, e := range own {
		if first.Time.IsZero() || e.Time.Before(first.Time) {
			first = e
		}
		if e.Time.After(last.Time) {
			last = e
		}

		project := e.Project
		if project == "" {
			project = "unknown"
		}
		projects.Add(project)

		if e.Type == event.TypeToolUse {
			category := e.Category
			if category == "" {
				category = event.CategoryOther
			}
			categories.Add(string(category))

			tool := e.Tool
			if tool == "" {
				tool = e.Detail
			}
			if tool == "" {
				tool = "unknown"
			}
			tools.Add(tool)
		}

		detail.HourlyActivity[(e.Time.UTC().Hour()+jstOffset)%24]++

		s, ok := sessions[e.SID]
		if !ok {
			s = &SessionInfo{SID: e.SID, Start: e.TS, startAt: e.Time, Project: project}
			sessions[e.SID] = s
			sessionOrder = append(sessionOrder, e.SID)
		}
		if e.Time.Before(s.startAt) {
			s.startAt = e.Time
			s.Start = e.TS
		}
		s.Events++
	}

	detail.FirstSeen = first.TS
	detail.LastSeen = last.TS
	detail.Projects = projects.Ranking(10)
	detail.ToolCategories, _ = Distribution(categories, categories.Len())
	detail.DailyTrend = Trend(own, GranularityDay)
	detail.TopTools = tools.Ranking(10)

	recent := make([]SessionInfo, 0, len(sessionOrder))
	for _, sid := range sessionOrder {
		recent = append(recent, *sessions[sid])
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].startAt.After(recent[j].startAt)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	detail.RecentSessions = recent

	return detail
}
