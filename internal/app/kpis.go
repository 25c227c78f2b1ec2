package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
	"github.com/blackwell-systems/teamlens/internal/output"
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "KPI panel with change rates and sparklines",
	Long: `Aggregate the team's usage events into the KPI panel: skill runs,
subagent spawns, MCP calls, messages, sessions, and active users, each with
a period-over-period change rate and a 12-bucket daily sparkline.`,
	RunE: runKPIs,
}

func init() {
	addRangeFlags(kpisCmd)
	rootCmd.AddCommand(kpisCmd)
}

func runKPIs(cmd *cobra.Command, args []string) error {
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

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(kpis)
	}

	fmt.Println(output.StyleHeader.Render("Team KPIs"))
	fmt.Println(output.StyleMuted.Render(fmt.Sprintf("%s — %s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))))
	fmt.Println()

	printKPIRow("Skills", kpis.Skills)
	printKPIRow("Subagents", kpis.Subagents)
	printKPIRow("MCP calls", kpis.MCPCalls)
	printKPIRow("Messages", kpis.Messages)
	printKPIRow("Sessions", kpis.Sessions)

	au := kpis.ActiveUsers
	fmt.Printf("%s%s %s\n",
		output.StyleLabel.Render("Active users"),
		output.StyleValue.Render(fmt.Sprintf("%d/%d", au.Active, au.Total)),
		output.StyleMuted.Render(fmt.Sprintf("%.1f%%", au.Rate)))

	return nil
}

func printKPIRow(label string, b aggregate.KPIBucket) {
	fmt.Printf("%s%s %s  %s\n",
		output.StyleLabel.Render(label),
		output.StyleValue.Render(fmt.Sprintf("%d", b.Current)),
		output.ChangeRate(b.ChangeRate),
		output.Sparkline(b.Sparkline))
}
