package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Recommend projects for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.engine.GetDashboardRecommendations(cmd.Context(), userID, limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "no projects in the catalog")
			return nil
		}
		fmt.Fprintf(out, "%-4s  %-6s  %-36s  %-12s  %6s  %7s\n", "#", "ID", "Project", "Difficulty", "Match", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for i, r := range recs {
			fmt.Fprintf(out, "%-4d  %-6d  %-36s  %-12s  %5.0f%%  %7.1f\n",
				i+1, r.Project.ID, r.Project.Title, r.Project.Difficulty, r.MatchPercentage, r.Score)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Int64("user", 0, "Learner ID")
	dashboardCmd.Flags().Int("limit", 0, "Number of projects to show (default from config)")
}
