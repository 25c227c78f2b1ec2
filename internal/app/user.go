package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/output"
)

var userCmd = &cobra.Command{
	Use:   "user <uid>",
	Short: "Deep activity profile for one user",
	Long: `Show one user's activity profile: totals, session history, project
and tool rankings, tool-category distribution, hourly activity, and the
daily event trend.`,
	Args: cobra.ExactArgs(1),
	RunE: runUser,
}

func init() {
	addRangeFlags(userCmd)
	rootCmd.AddCommand(userCmd)
}

func runUser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	eng := newEngine(cfg)
	detail, err := eng.UserDetail(cmd.Context(), args[0], start, end)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Println(output.StyleHeader.Render(detail.Name))
	fmt.Println(output.StyleMuted.Render(detail.UID))
	fmt.Println()

	fmt.Printf("%s%s\n", output.StyleLabel.Render("Total events"),
		output.StyleValue.Render(fmt.Sprintf("%d", detail.TotalEvents)))
	fmt.Printf("%s%s\n", output.StyleLabel.Render("Sessions"),
		output.StyleValue.Render(fmt.Sprintf("%d", detail.Sessions)))
	if detail.FirstSeen != "" {
		fmt.Printf("%s%s\n", output.StyleLabel.Render("First seen"), detail.FirstSeen)
		fmt.Printf("%s%s\n", output.StyleLabel.Render("Last seen"), detail.LastSeen)
	}
	fmt.Println()

	if len(detail.TopTools) > 0 {
		fmt.Println(output.StyleBold.Render("Top tools"))
		table := output.NewTable("Tool", "Count")
		table.AlignRight(1)
		for _, t := range detail.TopTools {
			table.AddRow(t.Name, fmt.Sprintf("%d", t.Count))
		}
		table.Print()
		fmt.Println()
	}

	if len(detail.Projects) > 0 {
		fmt.Println(output.StyleBold.Render("Projects"))
		table := output.NewTable("Project", "Events")
		table.AlignRight(1)
		for _, p := range detail.Projects {
			table.AddRow(p.Name, fmt.Sprintf("%d", p.Count))
		}
		table.Print()
		fmt.Println()
	}

	if len(detail.ToolCategories) > 0 {
		fmt.Println(output.StyleBold.Render("Tool categories"))
		for _, c := range detail.ToolCategories {
			fmt.Printf("  %-12s %5.1f%%\n", c.Name, c.Value)
		}
		fmt.Println()
	}

	if len(detail.RecentSessions) > 0 {
		fmt.Println(output.StyleBold.Render("Recent sessions"))
		table := output.NewTable("Start", "Project", "Events")
		table.AlignRight(2)
		for _, s := range detail.RecentSessions {
			table.AddRow(s.Start, s.Project, fmt.Sprintf("%d", s.Events))
		}
		table.Print()
	}

	return nil
}
