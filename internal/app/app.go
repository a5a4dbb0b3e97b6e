// Package app wires configuration, storage and services into the graph
// shared by the API server and the CLI.
package app

import (
	"github.com/nimasrn/trade-ledger/internal/config"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/internal/services"
	"github.com/nimasrn/trade-ledger/migrations"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/pkg/errors"
)

type Repositories struct {
	Customers        *repository.CustomerRepository
	Suppliers        *repository.SupplierRepository
	SalesInvoices    *repository.SalesInvoiceRepository
	PurchaseInvoices *repository.PurchaseInvoiceRepository
	Collections      *repository.CollectionRepository
	Payments         *repository.PaymentRepository
	Users            *repository.UserRepository
}

type App struct {
	DB      *sqldb.DB
	Repos   Repositories
	Ledger  *services.LedgerService
	Parties *services.PartyService
	Reports *services.ReportService
}

// OpenDB connects to the configured database and applies pending migrations
// when DB_AUTO_MIGRATE is set.
func OpenDB(c *config.Config) (*sqldb.DB, error) {
	debug := c.AppEnv == "dev" && c.AppDebug
	db, err := sqldb.CreateReadWrite(c.ReadDB(), c.WriteDB(), debug)
	if err != nil {
		return nil, errors.Wrap(err, "failed connecting to database")
	}
	if c.DBAutoMigrate {
		if err := Migrate(db, c); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *sqldb.DB, c *config.Config) error {
	if err := sqldb.Migrate(db, c.WriteDB(), migrations.FS); err != nil {
		return errors.Wrap(err, "failed running migrations")
	}
	v, err := sqldb.Version(db, c.WriteDB(), migrations.FS)
	if err != nil {
		return errors.Wrap(err, "failed reading migration version")
	}
	logger.Info("database schema is up to date", "driver", db.Driver(), "version", v)
	return nil
}

func New(db *sqldb.DB) *App {
	r := Repositories{
		Customers:        repository.NewCustomerRepository(db),
		Suppliers:        repository.NewSupplierRepository(db),
		SalesInvoices:    repository.NewSalesInvoiceRepository(db),
		PurchaseInvoices: repository.NewPurchaseInvoiceRepository(db),
		Collections:      repository.NewCollectionRepository(db),
		Payments:         repository.NewPaymentRepository(db),
		Users:            repository.NewUserRepository(db),
	}

	return &App{
		DB:    db,
		Repos: r,
		Ledger: services.NewLedgerService(services.LedgerRepositories{
			Tx:               db,
			Customers:        r.Customers,
			Suppliers:        r.Suppliers,
			SalesInvoices:    r.SalesInvoices,
			PurchaseInvoices: r.PurchaseInvoices,
			Collections:      r.Collections,
			Payments:         r.Payments,
		}),
		Parties: services.NewPartyService(db, r.Customers, r.Suppliers),
		Reports: services.NewReportService(services.ReportRepositories{
			Tx:               db,
			Customers:        r.Customers,
			Suppliers:        r.Suppliers,
			SalesInvoices:    r.SalesInvoices,
			PurchaseInvoices: r.PurchaseInvoices,
			Collections:      r.Collections,
			Payments:         r.Payments,
		}),
	}
}
