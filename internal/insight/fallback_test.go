package insight

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
)

func TestTeamFallback(t *testing.T) {
	kpi := aggregate.KPISummary{
		MCPCalls: aggregate.KPIBucket{Current: 120, ChangeRate: 33.3},
		Skills:   aggregate.KPIBucket{Current: 8, ChangeRate: -10},
	}
	users := []aggregate.UserSummary{
		{UID: "u1", Name: "alice", Total: 240},
		{UID: "u2", Name: "bob", Total: 100},
	}

	cards := TeamFallback(kpi, users, 5)

	if len(cards) != 5 {
		t.Fatalf("len = %d, want 5", len(cards))
	}
	for i, c := range cards {
		if c.Title == "" || c.Description == "" {
			t.Errorf("cards[%d] has empty fields: %+v", i, c)
		}
	}

	var leader Card
	for _, c := range cards {
		if c.Type == PowerUser {
			leader = c
		}
	}
	if !strings.Contains(leader.Description, "alice") {
		t.Errorf("power-user card = %+v, want the top user named", leader)
	}
}

func TestTeamFallback_CapsAtMax(t *testing.T) {
	cards := TeamFallback(aggregate.KPISummary{}, nil, 3)
	if len(cards) != 3 {
		t.Errorf("len = %d, want 3", len(cards))
	}
}

func TestTeamFallback_NoUsers(t *testing.T) {
	cards := TeamFallback(aggregate.KPISummary{}, nil, 5)
	for _, c := range cards {
		if c.Type == PowerUser && !strings.Contains(c.Description, "Not enough data") {
			t.Errorf("power-user card without users = %+v", c)
		}
	}
}

func TestUserFallback(t *testing.T) {
	detail := aggregate.UserDetail{
		UID:         "u1",
		TotalEvents: 80,
		Sessions:    12,
		TopTools:    []aggregate.RankEntry{{Name: "Bash", Count: 31}},
		Projects:    []aggregate.RankEntry{{Name: "api", Count: 55}},
	}

	cards := UserFallback(detail)

	if len(cards) != 3 {
		t.Fatalf("len = %d, want 3", len(cards))
	}
	if !strings.Contains(cards[0].Description, "80") || !strings.Contains(cards[0].Description, "12") {
		t.Errorf("summary card = %+v", cards[0])
	}
	if !strings.Contains(cards[1].Description, "Bash") {
		t.Errorf("tool card = %+v", cards[1])
	}
	if !strings.Contains(cards[2].Description, "api") {
		t.Errorf("project card = %+v", cards[2])
	}
}

func TestUserFallback_Empty(t *testing.T) {
	cards := UserFallback(aggregate.UserDetail{})
	if len(cards) != 3 {
		t.Fatalf("len = %d, want 3", len(cards))
	}
	for _, c := range cards[1:] {
		if !strings.Contains(c.Description, "Not enough data") {
			t.Errorf("card = %+v, want the no-data message", c)
		}
	}
}
