// Package app contains the Cobra command tree for teamlens.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "teamlens",
	Short: "Team usage analytics for AI-assisted development",
	Long: `teamlens aggregates append-only usage event logs into team analytics.
It reads date-partitioned JSONL logs written by each team member's tooling,
computes KPIs with period-over-period comparison, builds per-user leaderboards
and activity profiles, breaks tool usage down by category, and generates
cached AI insight summaries.

Run 'teamlens' with no arguments to see this overview.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("teamlens", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  kpis      KPI panel with change rates and sparklines")
		fmt.Println("  users     Per-user activity leaderboard")
		fmt.Println("  user      Deep activity profile for one user")
		fmt.Println("  tools     Tool usage breakdown by category")
		fmt.Println("  insights  AI-generated usage insights (cached)")
		fmt.Println("  track     Snapshot KPIs and compare over time")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		output.AutoDetect()
		if flagNoColor {
			output.SetNoColor(true)
		}
	})

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/teamlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
