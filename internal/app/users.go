package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/teamlens/internal/output"
)

var (
	usersSortBy    string
	usersSortOrder string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Per-user activity leaderboard",
	Long: `List every user active in the range with their typed event counters
(skill, subagent, MCP, command, message) and grand total. Sortable by any
counter, last-active timestamp, or display name.`,
	RunE: runUsers,
}

func init() {
	addRangeFlags(usersCmd)
	usersCmd.Flags().StringVar(&usersSortBy, "sort-by", "total", "Sort field: skill, subagent, mcp, command, message, total, lastActive, name")
	usersCmd.Flags().StringVar(&usersSortOrder, "sort-order", "desc", "Sort order: asc or desc")
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start, end, err := resolveRange()
	if err != nil {
		return err
	}

	eng := newEngine(cfg)
	users, err := eng.Users(cmd.Context(), start, end, usersSortBy, usersSortOrder)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}

	fmt.Println(output.StyleHeader.Render("Users"))
	fmt.Println()

	if len(users) == 0 {
		fmt.Println(output.StyleMuted.Render("No activity in range."))
		return nil
	}

	table := output.NewTable("#", "Name", "Last Active", "Skill", "Subagent", "MCP", "Command", "Message", "Total")
	table.AlignRight(0, 3, 4, 5, 6, 7, 8)
	for i, u := range users {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			u.Name,
			u.LastActive,
			fmt.Sprintf("%d", u.Skill),
			fmt.Sprintf("%d", u.Subagent),
			fmt.Sprintf("%d", u.MCP),
			fmt.Sprintf("%d", u.Command),
			fmt.Sprintf("%d", u.Message),
			fmt.Sprintf("%d", u.Total),
		)
	}
	table.Print()
	return nil
}
