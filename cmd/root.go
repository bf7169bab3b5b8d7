package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursefit",
	Short: "Find the course that fits you",
	Long: "CourseFit runs a short assessment of how you think and work, matches " +
		"your profile and skills against the course catalog and records the result " +
		"for enrollment.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides COURSEFIT_DB)")
	pf.String("config", "", "Path to a coursefit.yaml config file")
	pf.String("catalog", "", "Path to a custom catalog YAML file")

	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(blogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
