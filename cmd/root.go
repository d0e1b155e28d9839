package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Project-based learning paths",
	Long: "Pathwise recommends projects that fit your skills, tracks which tasks are\n" +
		"unlocked as you complete their prerequisites, and grades your submissions.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides PATHWISE_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-mode", "", "Log format: dev or prod (overrides PATHWISE_LOG_MODE)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(unenrollCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
