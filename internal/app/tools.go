package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/aggregate"
	"github.com/blackwell-systems/teamlens/internal/output"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <category>",
	Short: "Tool usage breakdown by category",
	Long: `Break down usage for one tool category (skills, subagents, mcp, or
commands): the total count, a daily trend, the share distribution, and the
top-ten ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runTools,
}

func init() {
	addRangeFlags(toolsCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	category, err := aggregate.ParseCategory(args[0])
	if err != nil {
		return err
	}

	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	eng := newEngine(cfg)
	analysis, err := eng.ToolAnalysis(cmd.Context(), category, start, end)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	fmt.Println(output.StyleHeader.Render(fmt.Sprintf("Tools: %s", analysis.Category)))
	fmt.Println()
	fmt.Printf("%s%s\n", output.StyleLabel.Render("Total"),
		output.StyleValue.Render(fmt.Sprintf("%d", analysis.Total)))
	fmt.Println()

	if len(analysis.Ranking) > 0 {
		fmt.Println(output.StyleBold.Render("Ranking"))
		table := output.NewTable("#", "Name", "Count")
		table.AlignRight(0, 2)
		for i, r := range analysis.Ranking {
			table.AddRow(fmt.Sprintf("%d", i+1), r.Name, fmt.Sprintf("%d", r.Count))
		}
		table.Print()
		fmt.Println()
	}

	if len(analysis.Distribution) > 0 {
		fmt.Println(output.StyleBold.Render("Distribution"))
		for _, d := range analysis.Distribution {
			fmt.Printf("  %-24s %5.1f%%\n", d.Name, d.Value)
		}
		fmt.Println()
	}

	if len(analysis.Trend) > 0 {
		fmt.Println(output.StyleBold.Render("Hourly trend"))
		counts := make([]int, len(analysis.Trend))
		for i, p := range analysis.Trend {
			counts[i] = p.Count
		}
		fmt.Printf("  %s  %s — %s\n",
			output.Sparkline(counts),
			analysis.Trend[0].Time,
			analysis.Trend[len(analysis.Trend)-1].Time)
	}

	return nil
}
