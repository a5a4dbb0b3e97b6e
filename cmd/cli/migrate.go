package main

import (
	"fmt"

	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/config"
	"github.com/nimasrn/trade-ledger/migrations"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Example: `  # Migrate the database named in .env
  ledger migrate --env=.env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			cfg := config.Get()
			if err := app.Migrate(db, cfg); err != nil {
				return err
			}
			v, err := sqldb.Version(db, cfg.WriteDB(), migrations.FS)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", v, db.Driver())
			return nil
		},
	}
}
