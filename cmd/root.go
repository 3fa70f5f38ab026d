package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "portfolio-dashboard",
	Short: "Portfolio dashboard backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
