package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/enrollment"
	"github.com/abhisek/pathwise/internal/models"
)

var submitCmd = &cobra.Command{
	Use:   "submit <task-id> <archive.zip>",
	Short: "Submit a solution archive for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID("task", args[0])
		if err != nil {
			return err
		}
		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.Submit(cmd.Context(), userID, taskID, f)
		switch {
		case enrollment.IsLocked(err):
			return fmt.Errorf("%w; finish its prerequisites first", err)
		case enrollment.IsNotEnrolled(err):
			return fmt.Errorf("%w; run \"pathwise enroll\" first", err)
		case err != nil:
			return err
		}
		out := cmd.OutOrStdout()
		sub := res.Submission
		fmt.Fprintf(out, "attempt %d: score %d\n", sub.Attempt, *sub.Score)
		if sub.Feedback != nil && *sub.Feedback != "" {
			fmt.Fprintf(out, "feedback: %s\n", *sub.Feedback)
		}
		switch {
		case !res.Passed:
			fmt.Fprintf(out, "not passed (need %d)\n", a.cfg.PassScore)
		case res.Completion != nil && res.Completion.Already:
			fmt.Fprintln(out, "passed (task was already complete)")
		case res.Completion != nil:
			fmt.Fprintf(out, "passed, project progress %d%%\n", res.Completion.Enrollment.Progress)
			for _, t := range res.Completion.Transitions {
				if t.TaskID != res.Completion.UserTask.TaskID && t.To == models.UserTaskUnlocked {
					fmt.Fprintf(out, "unlocked task %d\n", t.TaskID)
				}
			}
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().Int64("user", 0, "Learner ID")
}
