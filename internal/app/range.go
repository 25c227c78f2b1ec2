package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
)

var (
	flagPeriod string
	flagStart  string
	flagEnd    string
)

// addRangeFlags registers the shared date-range flags on a command.
// A period preset and an explicit range are both accepted; explicit
// --start/--end win when given.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPeriod, "period", "7d", "Preset window: 1d, 7d, 30d, or all")
	cmd.Flags().StringVar(&flagStart, "start", "", "Range start (RFC3339), overrides --period")
	cmd.Flags().StringVar(&flagEnd, "end", "", "Range end (RFC3339), defaults to now")
}

// resolveRange turns the range flags into a concrete [start, end] pair.
func resolveRange() (start, end time.Time, err error) {
	now := time.Now().UTC()

	if flagStart != "" || flagEnd != "" {
		end = now
		if flagEnd != "" {
			end, err = time.Parse(time.RFC3339, flagEnd)
			if err != nil {
				return start, end, fmt.Errorf("parsing --end: %w", err)
			}
		}
		if flagStart == "" {
			return start, end, fmt.Errorf("--start is required when --end is given")
		}
		start, err = time.Parse(time.RFC3339, flagStart)
		if err != nil {
			return start, end, fmt.Errorf("parsing --start: %w", err)
		}
		return start, end, nil
	}

	period, err := aggregate.ParsePeriod(flagPeriod)
	if err != nil {
		return start, end, err
	}
	end = now
	start = end.AddDate(0, 0, -(period.RetrievalDays() - 1))
	return start, end, nil
}
