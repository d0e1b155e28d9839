package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's enrollments and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		r := a.store.Repos()
		if _, err := r.Users.Get(cmd.Context(), userID); err != nil {
			return err
		}
		enrollments, err := r.Enrollments.ListByUser(cmd.Context(), userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(enrollments) == 0 {
			fmt.Fprintln(out, "no enrollments")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %8s  %-12s  %s\n", "Project", "Progress", "Status", "Started")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		var completed int
		for _, e := range enrollments {
			p, err := r.Projects.Get(cmd.Context(), e.ProjectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-36s  %7d%%  %-12s  %s\n",
				p.Title, e.Progress, e.Status, e.StartedAt.Local().Format("2006-01-02"))
			if e.Status == models.EnrollmentCompleted {
				completed++
			}
		}
		fmt.Fprintf(out, "\n%d enrolled, %d completed\n", len(enrollments), completed)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int64("user", 0, "Learner ID")
}
