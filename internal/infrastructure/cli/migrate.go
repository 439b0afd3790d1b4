package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/config"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return MapError(err)
		}

		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return MapError(err)
		}
		if err := store.Migrate(); err != nil {
			return MapError(err)
		}

		cmd.Printf("schema up to date: %s\n", cfg.DatabasePath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
