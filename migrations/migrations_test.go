package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/migrations"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLite(t *testing.T) {
	cfg := sqldb.Config{Driver: sqldb.DriverSQLite, Path: filepath.Join(t.TempDir(), "ledger.db")}
	db, err := sqldb.CreateReadWrite(cfg, cfg, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqldb.Migrate(db, cfg, migrations.FS))
	// Re-running is a no-op.
	require.NoError(t, sqldb.Migrate(db, cfg, migrations.FS))

	version, err := sqldb.Version(db, cfg, migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	ctx := context.Background()
	customers := repository.NewCustomerRepository(db)
	invoices := repository.NewSalesInvoiceRepository(db)

	c, err := customers.Create(ctx, &model.Customer{Name: "Ahmed"})
	require.NoError(t, err)

	inv := &model.SalesInvoice{InvoiceNumber: "INV-1", CustomerID: c.ID, Amount: decimal.NewFromInt(500)}
	inv.InvoiceDate = model.NewDate(c.CreatedAt)
	_, err = invoices.Create(ctx, inv)
	require.NoError(t, err)

	_, err = invoices.Create(ctx, inv)
	assert.ErrorIs(t, err, repository.ErrDuplicateInvoiceNumber)

	// Amounts survive with every digit.
	big := &model.SalesInvoice{InvoiceNumber: "INV-BIG", CustomerID: c.ID, Amount: decimal.RequireFromString("12345678901234567.89")}
	big.InvoiceDate = inv.InvoiceDate
	stored, err := invoices.Create(ctx, big)
	require.NoError(t, err)
	got, err := invoices.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567.89", got.Amount.StringFixed(2))

	total, err := invoices.TotalForOwner(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234568.89", total.StringFixed(2))

	// Foreign keys are enforced on migrated databases.
	inv.InvoiceNumber = "INV-2"
	inv.CustomerID = 999
	_, err = invoices.Create(ctx, inv)
	assert.Error(t, err)
}
