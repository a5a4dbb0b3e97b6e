package main

import (
	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/config"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envPath string

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Operational commands for the trade ledger",
		Long: `Operational commands for the trade ledger: schema migrations, balance
reconciliation and user provisioning. Configuration is read from the
environment, optionally preloaded from the file given with --env.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Load(envPath)
		},
	}
	root.PersistentFlags().StringVar(&envPath, "env", "", "path of a .env file to load")

	root.AddCommand(newMigrateCmd(), newReconcileCmd(), newUserCmd())
	return root
}

// openDB connects without applying migrations; the migrate command does
// that explicitly.
func openDB() (*sqldb.DB, error) {
	c := *config.Get()
	c.DBAutoMigrate = false
	return app.OpenDB(&c)
}
