package aggregate

import "sort"

// palette colors distribution slices in rank order; the remainder bucket is
// always the final gray.
var palette = []string{
	"#3b82f6", "#8b5cf6", "#06b6d4", "#f59e0b",
	"#10b981", "#ef4444", "#ec4899", "#d1d5db",
}

const (
	otherLabel = "other"
	otherColor = "#d1d5db"
)

// Counter counts occurrences by string key while remembering insertion
// order, so descending sorts break ties deterministically.
type Counter struct {
	keys   []string
	counts map[string]int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count for key.
func (c *Counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// DistributionEntry is one percentage slice of a distribution.
type DistributionEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// RankEntry is one row of a ranking list.
type RankEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// sortedEntries returns every entry in descending count order, ties broken
// by insertion order.
func (c *Counter) sortedEntries() []RankEntry {
	sorted := make([]RankEntry, 0, c.Len())
	for _, k := range c.keys {
		sorted = append(sorted, RankEntry{Name: k, Count: c.counts[k]})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// Ranking returns the top n entries in descending count order.
func (c *Counter) Ranking(n int) []RankEntry {
	sorted := c.sortedEntries()
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Distribution turns a counter into a top-N percentage breakdown plus a
// synthesized remainder bucket, and a top-10 ranking independent of topN.
// Percentages are of the full total, one decimal place; a zero total yields
// all-zero values.
func Distribution(c *Counter, topN int) ([]DistributionEntry, []RankEntry) {
	sorted := c.sortedEntries()

	total := c.Total()

	head := sorted
	if topN < len(head) {
		head = head[:topN]
	}
	restCount := 0
	for _, r := range sorted[len(head):] {
		restCount += r.Count
	}

	pct := func(count int) float64 {
		if total == 0 {
			return 0
		}
		return round1(float64(count) / float64(total) * 100)
	}

	distribution := make([]DistributionEntry, 0, len(head)+1)
	for i, r := range head {
		distribution = append(distribution, DistributionEntry{
			Name:  r.Name,
			Value: pct(r.Count),
			Color: palette[i%len(palette)],
		})
	}
	if restCount > 0 {
		distribution = append(distribution, DistributionEntry{
			Name:  otherLabel,
			Value: pct(restCount),
			Color: otherColor,
		})
	}

	ranking := sorted
	if len(ranking) > 10 {
		ranking = ranking[:10]
	}

	return distribution, ranking
}
