package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/models"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill catalog",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		all, err := a.store.Repos().Skills.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		var skills []models.Skill
		for _, s := range all {
			if category == "" || s.Category == category {
				skills = append(skills, s)
			}
		}
		if category != "" && len(skills) == 0 {
			return fmt.Errorf("no skills found for category %q", category)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-6s  %-30s  %s\n", "ID", "Name", "Category")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, s := range skills {
			fmt.Fprintf(out, "%-6d  %-30s  %s\n", s.ID, s.Name, s.Category)
		}
		fmt.Fprintf(out, "\n%d skills\n", len(skills))
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("category", "", "Filter by category (e.g. language)")

	skillCmd.AddCommand(skillListCmd)
}
