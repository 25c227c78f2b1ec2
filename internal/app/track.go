package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
	"github.com/blackwell-systems/teamlens/internal/config"
	"github.com/blackwell-systems/teamlens/internal/output"
	"github.com/blackwell-systems/teamlens/internal/store"
)

var trackCompare bool

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot KPIs and compare over time",
	Long: `Record the current KPI panel and user totals as a snapshot in the
local SQLite database. With --compare, show how each KPI moved since the
previous snapshot instead of recording a new one.`,
	RunE: runTrack,
}

func init() {
	addRangeFlags(trackCmd)
	trackCmd.Flags().BoolVar(&trackCompare, "compare", false, "Compare the two most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if trackCompare {
		return runTrackCompare(db)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	eng := newEngine(cfg)
	kpis, err := eng.KPIs(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	users, err := eng.Users(cmd.Context(), start, end, "total", "desc")
	if err != nil {
		return err
	}

	period := aggregate.PeriodForRange(start, end)
	id, err := db.SaveKPIs(period, appVersion, kpis, users)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"snapshot_id": id,
			"period":      period,
			"kpis":        kpis,
			"users":       len(users),
		})
	}

	fmt.Printf("Recorded snapshot %d (%s, %d users)\n", id, period, len(users))
	return nil
}

func runTrackCompare(db *store.DB) error {
	latest, err := db.GetSnapshotN(1)
	if err != nil {
		return err
	}
	previous, err := db.GetSnapshotN(2)
	if err != nil {
		return err
	}
	if latest == nil || previous == nil {
		return fmt.Errorf("need at least two snapshots to compare (run 'teamlens track' first)")
	}

	latestMetrics, err := db.KPIMetrics(latest.ID)
	if err != nil {
		return err
	}
	previousMetrics, err := db.KPIMetrics(previous.ID)
	if err != nil {
		return err
	}

	prevByName := make(map[string]store.KPIMetricRow, len(previousMetrics))
	for _, m := range previousMetrics {
		prevByName[m.Metric] = m
	}

	if flagJSON {
		type delta struct {
			Metric   string `json:"metric"`
			Previous int    `json:"previous"`
			Current  int    `json:"current"`
			Delta    int    `json:"delta"`
		}
		deltas := make([]delta, 0, len(latestMetrics))
		for _, m := range latestMetrics {
			deltas = append(deltas, delta{
				Metric:   m.Metric,
				Previous: prevByName[m.Metric].Current,
				Current:  m.Current,
				Delta:    m.Current - prevByName[m.Metric].Current,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"latest":   latest.TakenAt,
			"previous": previous.TakenAt,
			"metrics":  deltas,
		})
	}

	fmt.Println(output.StyleHeader.Render("Snapshot comparison"))
	fmt.Println(output.StyleMuted.Render(fmt.Sprintf("%s vs %s",
		previous.TakenAt.Format("2006-01-02 15:04"),
		latest.TakenAt.Format("2006-01-02 15:04"))))
	fmt.Println()

	table := output.NewTable("Metric", "Previous", "Current", "Delta")
	table.AlignRight(1, 2, 3)
	for _, m := range latestMetrics {
		prev := prevByName[m.Metric].Current
		d := m.Current - prev
		sign := ""
		if d > 0 {
			sign = "+"
		}
		table.AddRow(m.Metric,
			fmt.Sprintf("%d", prev),
			fmt.Sprintf("%d", m.Current),
			fmt.Sprintf("%s%d", sign, d))
	}
	table.Print()
	return nil
}
