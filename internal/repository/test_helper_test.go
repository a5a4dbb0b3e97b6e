package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *sqldb.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(Entities()...)
	require.NoError(t, err)

	return sqldb.Wrap(db, db, sqldb.DriverSQLite)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) model.Date {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return model.NewDate(t)
}

func createCustomer(t *testing.T, repo *CustomerRepository, name string) *model.Customer {
	c, err := repo.Create(context.Background(), &model.Customer{Name: name})
	require.NoError(t, err)
	return c
}

func createSupplier(t *testing.T, repo *SupplierRepository, name string) *model.Supplier {
	s, err := repo.Create(context.Background(), &model.Supplier{Name: name})
	require.NoError(t, err)
	return s
}
