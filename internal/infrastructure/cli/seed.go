package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/expenseflow/internal/domain/identity"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/config"
	"github.com/felixgeelhaar/expenseflow/internal/infrastructure/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo set of users for local development",
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

		now := time.Now()
		seeds := []struct {
			name, email string
			role        identity.Role
			department  string
		}{
			{"Ada Lovelace", "ada@example.com", identity.RoleEmployee, "Engineering"},
			{"Grace Hopper", "grace@example.com", identity.RoleManager, "Engineering"},
			{"Erin Sales", "erin@example.com", identity.RoleEmployee, "Sales"},
			{"Mara Vale", "mara@example.com", identity.RoleManager, "Sales"},
			{"Root Admin", "admin@example.com", identity.RoleAdmin, "Operations"},
		}

		for _, s := range seeds {
			u, err := identity.NewUser(s.name, s.email, s.role, s.department, now)
			if err != nil {
				return MapError(err)
			}
			if err := store.CreateUser(cmd.Context(), u); err != nil {
				return MapError(err)
			}
			cmd.Printf("created %s (%s, %s): %s\n", u.Name, u.Role, u.Department, u.ID)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
