package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "latintutor",
	Short: "Adaptive Latin tutor",
	Long:  "latintutor is a terminal client for an adaptive Latin grammar course: lessons, practice, confidence ratings and mastery tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LATINTUTOR_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default ~/.config/latintutor/config.yaml)")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(materialsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or LATINTUTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
