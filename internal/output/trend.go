package output

import (
	"fmt"
	"strings"
)

// sparkGlyphs maps bucket magnitudes onto eight block heights.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a per-day histogram as a row of block glyphs scaled to
// the largest bucket. Empty input renders as an empty string.
func Sparkline(buckets []int) string {
	if len(buckets) == 0 {
		return ""
	}

	max := 0
	for _, b := range buckets {
		if b > max {
			max = b
		}
	}

	var sb strings.Builder
	for _, b := range buckets {
		idx := 0
		if max > 0 {
			idx = b * (len(sparkGlyphs) - 1) / max
		}
		sb.WriteRune(sparkGlyphs[idx])
	}
	return StyleMuted.Render(sb.String())
}

// ChangeRate renders a period-over-period percentage with an arrow, green
// for growth and red for decline.
func ChangeRate(rate float64) string {
	switch {
	case rate > 0:
		return StyleSuccess.Render(fmt.Sprintf("▲ +%.1f%%", rate))
	case rate < 0:
		return StyleError.Render(fmt.Sprintf("▼ %.1f%%", rate))
	default:
		return StyleMuted.Render("─ 0.0%")
	}
}
