package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and load project catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d skills, %d projects, %d tasks)\n",
			args[0], cat.Version, len(cat.Skills), len(cat.Projects), cat.TaskCount())
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load a catalog file into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := catalog.Seed(cmd.Context(), a.store, cat)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "skills: %d created, %d reused\n", res.SkillsCreated, res.SkillsReused)
		fmt.Fprintf(out, "projects: %d created (%d tasks)\n", len(res.Created), res.Tasks)
		if len(res.Skipped) > 0 {
			fmt.Fprintf(out, "skipped existing: %s\n", strings.Join(res.Skipped, ", "))
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
}
