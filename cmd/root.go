package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "flexkonto",
	Short: "flexkonto - flex-time account and break-rule engine",
	Long: `flexkonto keeps a working-time account: time entries, absences,
statutory breaks, a capped weekly flex account and the vacation ledger.
Without a subcommand it serves the HTTP API.`,
	RunE: runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/application.yaml", "path of the YAML configuration")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(calcCmd)
}
