package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <project-id>",
	Short: "Enroll a learner in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID("project", args[0])
		if err != nil {
			return err
		}
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Enroll(cmd.Context(), userID, projectID)
		if err != nil {
			return err
		}
		if !res.Created {
			fmt.Fprintf(cmd.OutOrStdout(), "already enrolled (%d%%)\n", res.Enrollment.Progress)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "enrolled in project %d with %d tasks\n", projectID, len(res.UserTasks))
		return nil
	},
}

var unenrollCmd = &cobra.Command{
	Use:   "unenroll <project-id>",
	Short: "Leave a project and delete its progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID("project", args[0])
		if err != nil {
			return err
		}
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Unenroll(cmd.Context(), userID, projectID)
		if err != nil {
			return err
		}
		if res.Enrollment.ID == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "not enrolled")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "left project %d (removed %d tasks, %d submissions)\n",
			projectID, res.UserTasks, res.Submissions)
		return nil
	},
}

func init() {
	enrollCmd.Flags().Int64("user", 0, "Learner ID")
	unenrollCmd.Flags().Int64("user", 0, "Learner ID")
}
