package cmd

import (
	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/flexkonto/flexkonto/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return database.Migrate(cfg.Database)
	},
}
