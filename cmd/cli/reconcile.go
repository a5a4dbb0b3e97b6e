package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var (
		fix   bool
		owner string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare cached balances with balances computed from records",
		Long: `Recompute every customer and supplier balance from its invoices and cash
movements and list the owners whose cached balance differs. With --fix the
cached balances are rewritten from the computed ones in one transaction.`,
		Example: `  # Report drift for every owner
  ledger reconcile

  # Repair supplier balances
  ledger reconcile --owner supplier --fix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := model.OwnerType(strings.ToLower(owner))
			switch o {
			case "", model.OwnerCustomer, model.OwnerSupplier:
			default:
				return fmt.Errorf("invalid --owner %q: must be customer or supplier", owner)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			a := app.New(db)
			run := a.Reports.Reconcile
			if fix {
				run = a.Reports.Repair
			}
			found, err := run(cmd.Context(), o)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "no balance drift found")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OWNER\tID\tNAME\tCACHED\tCOMPUTED\tDRIFT")
			for _, d := range found {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", d.Owner, d.OwnerID, d.Name,
					d.Cached.StringFixed(2), d.Computed.StringFixed(2), d.Drift.StringFixed(2))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if fix {
				fmt.Fprintf(out, "repaired %d balance(s)\n", len(found))
			} else {
				fmt.Fprintf(out, "%d balance(s) drifted, run with --fix to repair\n", len(found))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite drifted cached balances")
	cmd.Flags().StringVar(&owner, "owner", "", "limit to customer or supplier")
	return cmd
}
