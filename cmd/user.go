package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage learners and their skills",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.store.Repos().Users.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Name)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.store.Repos().Users.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%4d  %s\n", u.ID, u.Name)
		}
		return nil
	},
}

var userSkillsCmd = &cobra.Command{
	Use:   "skills <user-id> [skill[:proficiency]...]",
	Short: "Show or replace a learner's skills",
	Long: "With only a user ID, prints the learner's skills. With skill names,\n" +
		"replaces the learner's skill profile; pass --clear to remove every skill.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		reset, _ := cmd.Flags().GetBool("clear")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		r := a.store.Repos()

		if _, err := r.Users.Get(ctx, userID); err != nil {
			return err
		}

		if len(args) > 1 || reset {
			var profile []models.UserSkill
			for _, arg := range args[1:] {
				name, prof, _ := strings.Cut(arg, ":")
				sk, err := r.Skills.GetByName(ctx, name)
				if err != nil {
					return err
				}
				profile = append(profile, models.UserSkill{SkillID: sk.ID, Proficiency: prof})
			}
			if err := r.UserSkills.Set(ctx, userID, profile); err != nil {
				return err
			}
		}

		names, err := skillNames(cmd, a)
		if err != nil {
			return err
		}
		list, err := r.UserSkills.List(ctx, userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "no skills")
			return nil
		}
		for _, us := range list {
			if us.Proficiency != "" {
				fmt.Fprintf(out, "%s (%s)\n", names[us.SkillID], us.Proficiency)
				continue
			}
			fmt.Fprintln(out, names[us.SkillID])
		}
		return nil
	},
}

// skillNames maps skill IDs to names for display.
func skillNames(cmd *cobra.Command, a *app) (map[int64]string, error) {
	skills, err := a.store.Repos().Skills.ListAll(cmd.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(skills))
	for _, s := range skills {
		names[s.ID] = s.Name
	}
	return names, nil
}

func init() {
	userSkillsCmd.Flags().Bool("clear", false, "Remove every skill from the learner")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userSkillsCmd)
}
