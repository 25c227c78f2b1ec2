package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/insight"
	"github.com/blackwell-systems/teamlens/internal/output"
)

var insightsUser string

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "AI-generated usage insights (cached)",
	Long: `Generate insight cards for the team, or for one user with --user.
Cards come from the configured Gemini model when an API key is set, and from
the built-in deterministic summaries otherwise. Results are cached on disk
and reused until the configured TTL expires.`,
	RunE: runInsights,
}

func init() {
	addRangeFlags(insightsCmd)
	insightsCmd.Flags().StringVar(&insightsUser, "user", "", "Generate insights for one uid instead of the team")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	eng := newEngine(cfg)

	var resp insight.Response
	if insightsUser != "" {
		resp, err = eng.UserInsights(cmd.Context(), insightsUser, start, end)
	} else {
		resp, err = eng.TeamInsights(cmd.Context(), start, end)
	}
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	title := "Team Insights"
	if insightsUser != "" {
		title = fmt.Sprintf("Insights: %s", insightsUser)
	}
	fmt.Println(output.StyleHeader.Render(title))

	note := fmt.Sprintf("generated %s", resp.GeneratedAt)
	if resp.Cached {
		note += " (cached)"
	}
	fmt.Println(output.StyleMuted.Render(note))
	fmt.Println()

	for _, card := range resp.Insights {
		fmt.Println(output.RenderCard(card, cfg.Output.Width))
	}
	return nil
}
