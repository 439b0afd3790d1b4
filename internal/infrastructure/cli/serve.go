package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/expenseflow/internal/application"
	"github.com/felixgeelhaar/expenseflow/internal/domain/authz"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/config"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/httpapi"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/logging"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the expense approval HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return MapError(err)
		}

		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		gin.SetMode(cfg.GinMode)

		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return MapError(err)
		}
		if err := store.Migrate(); err != nil {
			return MapError(err)
		}

		audit := application.NewAuditService(store, nil)
		expenses := application.NewExpenseService(store, audit, nil)
		decisions := application.NewDecisionService(store, authz.NewResolver(), audit, nil)

		server := httpapi.NewServer(expenses, decisions, log)
		return server.Run(cfg.ListenAddr)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
