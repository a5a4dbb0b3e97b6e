package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/internal/services"
	"github.com/nimasrn/trade-ledger/pkg/redis"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repository.Entities()...))
	return sqldb.Wrap(db, db, sqldb.DriverSQLite)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

// Env wires real repositories and services over a test database.
type Env struct {
	DB               *sqldb.DB
	Customers        *repository.CustomerRepository
	Suppliers        *repository.SupplierRepository
	SalesInvoices    *repository.SalesInvoiceRepository
	PurchaseInvoices *repository.PurchaseInvoiceRepository
	Collections      *repository.CollectionRepository
	Payments         *repository.PaymentRepository
	Users            *repository.UserRepository
	Ledger           *services.LedgerService
	Parties          *services.PartyService
	Reports          *services.ReportService
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	a := app.New(SetupTestDB(t))
	return &Env{
		DB:               a.DB,
		Customers:        a.Repos.Customers,
		Suppliers:        a.Repos.Suppliers,
		SalesInvoices:    a.Repos.SalesInvoices,
		PurchaseInvoices: a.Repos.PurchaseInvoices,
		Collections:      a.Repos.Collections,
		Payments:         a.Repos.Payments,
		Users:            a.Repos.Users,
		Ledger:           a.Ledger,
		Parties:          a.Parties,
		Reports:          a.Reports,
	}
}

// NewAuth builds an AuthService over the env users and a miniredis session
// store, with the cheapest bcrypt cost.
func (e *Env) NewAuth(t *testing.T, ttl time.Duration) (*services.AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr, adapter := SetupTestRedis(t)
	auth := services.NewAuthService(e.Users, repository.NewSessionRepository(adapter), ttl).
		WithHashCost(bcrypt.MinCost)
	return auth, mr
}

func CustomerBalance(t *testing.T, e *Env, id int64) decimal.Decimal {
	t.Helper()
	b, err := e.Customers.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return b
}

func SupplierBalance(t *testing.T, e *Env, id int64) decimal.Decimal {
	t.Helper()
	b, err := e.Suppliers.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return b
}

// RequireBalance fails unless got equals the decimal literal want.
func RequireBalance(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "balance: want %s, got %s", want, got)
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
