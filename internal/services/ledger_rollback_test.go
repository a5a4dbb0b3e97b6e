package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/internal/services"
	"github.com/nimasrn/trade-ledger/test/fixtures"
	"github.com/nimasrn/trade-ledger/test/helpers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// failingBalances fails every balance write after the record was written.
type failingBalances struct {
	*repository.CustomerRepository
}

func (f failingBalances) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, errDiskFull
}

func TestLedgerService_StorageFailureRollsBack(t *testing.T) {
	env := helpers.NewEnv(t)
	ctx := context.Background()
	c := newCustomer(t, env, "c")

	col, err := env.Ledger.CreateCollection(ctx, fixtures.Collection(c.ID, "40"))
	require.NoError(t, err)

	broken := services.NewLedgerService(services.LedgerRepositories{
		Tx:               env.DB,
		Customers:        failingBalances{env.Customers},
		Suppliers:        env.Suppliers,
		SalesInvoices:    env.SalesInvoices,
		PurchaseInvoices: env.PurchaseInvoices,
		Collections:      env.Collections,
		Payments:         env.Payments,
	})

	_, err = broken.CreateSalesInvoice(ctx, fixtures.SalesInvoice("INV-1", c.ID, "500"))
	var serr *model.StorageError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, errDiskFull)

	_, err = broken.UpdateCollection(ctx, col.ID, fixtures.Collection(c.ID, "90"))
	assert.ErrorIs(t, err, model.ErrStorage)

	assert.ErrorIs(t, broken.DeleteCollection(ctx, col.ID), model.ErrStorage)

	n, err := env.SalesInvoices.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "invoice write was rolled back")

	got, err := env.Ledger.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	helpers.RequireBalance(t, "40", got.Amount)
	helpers.RequireBalance(t, "-40", helpers.CustomerBalance(t, env, c.ID))
}
