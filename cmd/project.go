package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/readiness"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Browse projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.store.Repos().Projects.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-6s  %-40s  %s\n", "ID", "Title", "Difficulty")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, p := range projects {
			fmt.Fprintf(out, "%-6d  %-40s  %s\n", p.ID, p.Title, p.Difficulty)
		}
		return nil
	},
}

var projectViewCmd = &cobra.Command{
	Use:   "view <project-id>",
	Short: "Show a project's tasks and the recommended next step for a learner",
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

		v, err := a.engine.GetProjectView(cmd.Context(), projectID, userID)
		if err != nil {
			return err
		}
		names, err := skillNames(cmd, a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s [%s]\n", v.Project.Title, v.Project.Difficulty)
		if v.Project.Description != "" {
			fmt.Fprintln(out, v.Project.Description)
		}
		if v.Enrollment != nil {
			fmt.Fprintf(out, "enrolled: %d%% (%s)\n", v.Enrollment.Progress, v.Enrollment.Status)
		} else {
			fmt.Fprintln(out, "not enrolled")
		}
		fmt.Fprintln(out)

		for _, tv := range v.Tasks {
			fmt.Fprintf(out, "  %-5d %-10s %s\n", tv.Task.ID, tv.Status.Label(), tv.Task.Title)
			if tv.Status == readiness.StatusSkillGap {
				missing := make([]string, len(tv.Missing))
				for i, id := range tv.Missing {
					missing[i] = names[id]
				}
				fmt.Fprintf(out, "        missing skills: %s\n", strings.Join(missing, ", "))
			}
		}
		fmt.Fprintln(out)

		switch {
		case v.RecommendationErr != nil:
			fmt.Fprintf(out, "no recommendation: %v\n", v.RecommendationErr)
		case v.NextRecommended == nil:
			fmt.Fprintln(out, "all tasks completed")
		default:
			fmt.Fprintf(out, "next: %s (task %d)\n", v.NextRecommended.Title, v.NextRecommended.ID)
			if len(v.RecommendedPath) > 1 {
				titles := make([]string, len(v.RecommendedPath))
				for i, t := range v.RecommendedPath {
					titles[i] = t.Title
				}
				fmt.Fprintf(out, "path: %s\n", strings.Join(titles, " → "))
			}
		}
		return nil
	},
}

func init() {
	projectViewCmd.Flags().Int64("user", 0, "Learner ID")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectViewCmd)
}
