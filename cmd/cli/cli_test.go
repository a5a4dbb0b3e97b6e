package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("APP_DEBUG", "false")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateAndCreateUser(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1 (sqlite)")

	out, err = run(t, "user", "create", "--username", "alice", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, `created user "alice"`)

	_, err = run(t, "user", "create", "--username", "alice", "--password", "other")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run(t, "user", "create", "--username", "bob")
	assert.Error(t, err, "password flag is required")
}

func TestReconcile(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "no balance drift found")

	// Corrupt a cached balance behind the ledger's back.
	db, err := openDB()
	require.NoError(t, err)
	a := app.New(db)
	ctx := context.Background()
	c, err := a.Parties.CreateCustomer(ctx, model.PartyInput{Name: "Ahmed"})
	require.NoError(t, err)
	_, err = a.Ledger.CreateSalesInvoice(ctx, model.SalesInvoiceInput{
		InvoiceNumber: "INV-1", CustomerID: c.ID, Amount: "500", InvoiceDate: "2024-01-15",
	})
	require.NoError(t, err)
	require.NoError(t, a.Repos.Customers.SetBalance(ctx, c.ID, decimal.NewFromInt(1)))
	require.NoError(t, db.Close())

	out, err = run(t, "reconcile", "--owner", "customer")
	require.NoError(t, err)
	assert.Contains(t, out, "Ahmed")
	assert.Contains(t, out, "1 balance(s) drifted")

	out, err = run(t, "reconcile", "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "repaired 1 balance(s)")

	out, err = run(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "no balance drift found")

	_, err = run(t, "reconcile", "--owner", "vendor")
	assert.Error(t, err)
}
