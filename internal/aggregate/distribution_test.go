package aggregate

import "testing"

func TestCounter_InsertionOrderBreaksTies(t *testing.T) {
	c := NewCounter()
	for _, k := range []string{"beta", "alpha", "beta", "gamma", "alpha", "delta"} {
		c.Add(k)
	}

	ranking := c.Ranking(10)

	want := []RankEntry{
		{Name: "beta", Count: 2},
		{Name: "alpha", Count: 2},
		{Name: "gamma", Count: 1},
		{Name: "delta", Count: 1},
	}
	if len(ranking) != len(want) {
		t.Fatalf("len = %d, want %d", len(ranking), len(want))
	}
	for i := range want {
		if ranking[i] != want[i] {
			t.Errorf("ranking[%d] = %+v, want %+v", i, ranking[i], want[i])
		}
	}
}

func TestCounter_RankingCapped(t *testing.T) {
	c := NewCounter()
	for i := 0; i < 15; i++ {
		c.Add(string(rune('a' + i)))
	}

	if got := len(c.Ranking(10)); got != 10 {
		t.Errorf("len = %d, want 10", got)
	}
}

func TestDistribution(t *testing.T) {
	c := NewCounter()
	add := func(key string, n int) {
		for i := 0; i < n; i++ {
			c.Add(key)
		}
	}
	add("grep", 50)
	add("edit", 30)
	add("read", 15)
	add("write", 5)

	dist, ranking := Distribution(c, 2)

	// Two named slices plus the remainder bucket.
	if len(dist) != 3 {
		t.Fatalf("len(dist) = %d, want 3", len(dist))
	}
	if dist[0].Name != "grep" || dist[0].Value != 50 {
		t.Errorf("dist[0] = %+v, want grep at 50%%", dist[0])
	}
	if dist[1].Name != "edit" || dist[1].Value != 30 {
		t.Errorf("dist[1] = %+v, want edit at 30%%", dist[1])
	}
	if dist[2].Name != otherLabel || dist[2].Value != 20 {
		t.Errorf("dist[2] = %+v, want other at 20%%", dist[2])
	}
	if dist[2].Color != otherColor {
		t.Errorf("other color = %q, want %q", dist[2].Color, otherColor)
	}

	// Head colors come from the palette in rank order.
	if dist[0].Color != palette[0] || dist[1].Color != palette[1] {
		t.Errorf("head colors = %q, %q, want palette order", dist[0].Color, dist[1].Color)
	}

	// Percentages are of the full total, so they sum to ~100.
	var sum float64
	for _, d := range dist {
		sum += d.Value
	}
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("distribution sums to %v, want ~100", sum)
	}

	// The ranking is independent of topN.
	if len(ranking) != 4 {
		t.Errorf("len(ranking) = %d, want 4", len(ranking))
	}
}

func TestDistribution_NoRemainderBucketWhenAllFit(t *testing.T) {
	c := NewCounter()
	c.Add("a")
	c.Add("b")

	dist, _ := Distribution(c, 7)

	if len(dist) != 2 {
		t.Fatalf("len = %d, want 2", len(dist))
	}
	for _, d := range dist {
		if d.Name == otherLabel {
			t.Errorf("unexpected remainder bucket: %+v", d)
		}
	}
}

func TestDistribution_Empty(t *testing.T) {
	dist, ranking := Distribution(NewCounter(), 7)
	if len(dist) != 0 {
		t.Errorf("dist = %+v, want empty", dist)
	}
	if len(ranking) != 0 {
		t.Errorf("ranking = %+v, want empty", ranking)
	}
}
