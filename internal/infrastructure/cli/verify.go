package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/expenseflow/internal/application"
	"github.com/felixgeelhaar/expenseflow/internal/domain/authz"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/config"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/storage"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the audit log hash chain and per-expense decision history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return MapError(err)
		}

		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return MapError(err)
		}

		ctx := cmd.Context()
		audit := application.NewAuditService(store, nil)
		if err := audit.Verify(ctx); err != nil {
			return NewCLIError("audit log verification failed",
				"The event log was modified outside the service", err)
		}

		decisions := application.NewDecisionService(store, authz.NewResolver(), audit, nil)
		all, err := store.Expenses(ctx)
		if err != nil {
			return MapError(err)
		}
		for i := range all {
			if err := decisions.VerifyHistory(ctx, all[i].ID); err != nil {
				return MapError(err)
			}
		}

		cmd.Printf("audit chain intact, %d expense(s) consistent\n", len(all))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}
