package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/prom"
	"github.com/shopspring/decimal"
)

const recentInvoices = 5

// BalanceLocker reads and rewrites a cached balance under a row lock.
type BalanceLocker interface {
	LockBalance(ctx context.Context, id int64) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id int64, value decimal.Decimal) error
}

type CustomerReader interface {
	BalanceLocker
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Count(ctx context.Context) (int64, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

type SupplierReader interface {
	BalanceLocker
	GetByID(ctx context.Context, id int64) (*model.Supplier, error)
	List(ctx context.Context) ([]*model.Supplier, error)
	Count(ctx context.Context) (int64, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

// Aggregator sums the amounts of one record table.
type Aggregator interface {
	TotalsByOwner(ctx context.Context) (map[int64]decimal.Decimal, error)
	TotalForOwner(ctx context.Context, ownerID int64) (decimal.Decimal, error)
}

type SalesInvoiceReader interface {
	Aggregator
	List(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error)
	Count(ctx context.Context) (int64, error)
}

type PurchaseInvoiceReader interface {
	Aggregator
	List(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error)
	Count(ctx context.Context) (int64, error)
}

type CollectionReader interface {
	Aggregator
	List(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error)
}

type PaymentReader interface {
	Aggregator
	List(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error)
}

type ReportRepositories struct {
	Tx               Transactor
	Customers        CustomerReader
	Suppliers        SupplierReader
	SalesInvoices    SalesInvoiceReader
	PurchaseInvoices PurchaseInvoiceReader
	Collections      CollectionReader
	Payments         PaymentReader
}

// ReportService builds statements, reports and the dashboard, and reconciles
// cached balances against the records they are derived from.
type ReportService struct {
	tx          Transactor
	customers   CustomerReader
	suppliers   SupplierReader
	sales       SalesInvoiceReader
	purchases   PurchaseInvoiceReader
	collections CollectionReader
	payments    PaymentReader
}

func NewReportService(r ReportRepositories) *ReportService {
	return &ReportService{
		tx:          r.Tx,
		customers:   r.Customers,
		suppliers:   r.Suppliers,
		sales:       r.SalesInvoices,
		purchases:   r.PurchaseInvoices,
		collections: r.Collections,
		payments:    r.Payments,
	}
}

func (s *ReportService) CustomerStatement(ctx context.Context, id int64) (*model.CustomerStatement, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrCustomerNotFound, "customer", id)
	}
	byDate := model.RecordFilter{OwnerID: id, OrderBy: model.OrderByDate}

	invoices, err := s.sales.List(ctx, byDate)
	if err != nil {
		return nil, model.NewStorageError("customer statement", err)
	}
	collections, err := s.collections.List(ctx, byDate)
	if err != nil {
		return nil, model.NewStorageError("customer statement", err)
	}
	totals, err := ownerTotals(ctx, s.sales, s.collections, id)
	if err != nil {
		return nil, model.NewStorageError("customer statement", err)
	}

	computed := totals.Balance()
	return &model.CustomerStatement{
		Customer:     c,
		Invoices:     invoices,
		Collections:  collections,
		Totals:       totals,
		Computed:     computed,
		BalanceDrift: !computed.Equal(c.Balance),
	}, nil
}

func (s *ReportService) SupplierStatement(ctx context.Context, id int64) (*model.SupplierStatement, error) {
	sp, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrSupplierNotFound, "supplier", id)
	}
	byDate := model.RecordFilter{OwnerID: id, OrderBy: model.OrderByDate}

	invoices, err := s.purchases.List(ctx, byDate)
	if err != nil {
		return nil, model.NewStorageError("supplier statement", err)
	}
	payments, err := s.payments.List(ctx, byDate)
	if err != nil {
		return nil, model.NewStorageError("supplier statement", err)
	}
	totals, err := ownerTotals(ctx, s.purchases, s.payments, id)
	if err != nil {
		return nil, model.NewStorageError("supplier statement", err)
	}

	computed := totals.Balance()
	return &model.SupplierStatement{
		Supplier:     sp,
		Invoices:     invoices,
		Payments:     payments,
		Totals:       totals,
		Computed:     computed,
		BalanceDrift: !computed.Equal(sp.Balance),
	}, nil
}

func ownerTotals(ctx context.Context, invoices, cash Aggregator, ownerID int64) (model.Totals, error) {
	inv, err := invoices.TotalForOwner(ctx, ownerID)
	if err != nil {
		return model.Totals{}, err
	}
	paid, err := cash.TotalForOwner(ctx, ownerID)
	if err != nil {
		return model.Totals{}, err
	}
	return model.Totals{Invoices: inv, Cash: paid}, nil
}

func allTotals(ctx context.Context, invoices, cash Aggregator) (map[int64]decimal.Decimal, map[int64]decimal.Decimal, error) {
	inv, err := invoices.TotalsByOwner(ctx)
	if err != nil {
		return nil, nil, err
	}
	paid, err := cash.TotalsByOwner(ctx)
	if err != nil {
		return nil, nil, err
	}
	return inv, paid, nil
}

func reportRow(id int64, name, phone, email string, createdAt time.Time, cached decimal.Decimal, inv, paid map[int64]decimal.Decimal) *model.PartyReportRow {
	computed := inv[id].Sub(paid[id])
	return &model.PartyReportRow{
		ID:            id,
		Name:          name,
		Phone:         phone,
		Email:         email,
		TotalInvoices: inv[id],
		TotalCash:     paid[id],
		Balance:       cached,
		Computed:      computed,
		Drift:         !computed.Equal(cached),
		CreatedAt:     createdAt,
	}
}

// CustomerReport lists every customer with invoice and collection totals.
func (s *ReportService) CustomerReport(ctx context.Context) ([]*model.PartyReportRow, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, model.NewStorageError("customer report", err)
	}
	inv, paid, err := allTotals(ctx, s.sales, s.collections)
	if err != nil {
		return nil, model.NewStorageError("customer report", err)
	}
	rows := make([]*model.PartyReportRow, len(customers))
	for i, c := range customers {
		rows[i] = reportRow(c.ID, c.Name, c.Phone, c.Email, c.CreatedAt, c.Balance, inv, paid)
	}
	return rows, nil
}

// SupplierReport lists every supplier with invoice and payment totals.
func (s *ReportService) SupplierReport(ctx context.Context) ([]*model.PartyReportRow, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, model.NewStorageError("supplier report", err)
	}
	inv, paid, err := allTotals(ctx, s.purchases, s.payments)
	if err != nil {
		return nil, model.NewStorageError("supplier report", err)
	}
	rows := make([]*model.PartyReportRow, len(suppliers))
	for i, sp := range suppliers {
		rows[i] = reportRow(sp.ID, sp.Name, sp.Phone, sp.Email, sp.CreatedAt, sp.Balance, inv, paid)
	}
	return rows, nil
}

func (s *ReportService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	d := &model.Dashboard{}
	var err error
	wrap := func(e error) error { return model.NewStorageError("dashboard", e) }

	if d.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, wrap(err)
	}
	if d.TotalSuppliers, err = s.suppliers.Count(ctx); err != nil {
		return nil, wrap(err)
	}
	if d.TotalSalesInvoices, err = s.sales.Count(ctx); err != nil {
		return nil, wrap(err)
	}
	if d.TotalPurchaseInvoices, err = s.purchases.Count(ctx); err != nil {
		return nil, wrap(err)
	}
	if d.RecentSales, err = s.sales.List(ctx, model.RecordFilter{Limit: recentInvoices}); err != nil {
		return nil, wrap(err)
	}
	if d.RecentPurchases, err = s.purchases.List(ctx, model.RecordFilter{Limit: recentInvoices}); err != nil {
		return nil, wrap(err)
	}
	if d.TotalCustomerBalance, err = s.customers.TotalBalance(ctx); err != nil {
		return nil, wrap(err)
	}
	if d.TotalSupplierBalance, err = s.suppliers.TotalBalance(ctx); err != nil {
		return nil, wrap(err)
	}
	return d, nil
}

// Reconcile recomputes every balance of the given owner type from records
// and returns the owners whose cached balance differs. An empty owner checks
// both customers and suppliers.
func (s *ReportService) Reconcile(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error) {
	var out []*model.Discrepancy
	if owner == "" || owner == model.OwnerCustomer {
		rows, err := s.CustomerReport(ctx)
		if err != nil {
			return nil, err
		}
		found := discrepancies(model.OwnerCustomer, rows)
		prom.SetDriftOwners(string(model.OwnerCustomer), len(found))
		out = append(out, found...)
	}
	if owner == "" || owner == model.OwnerSupplier {
		rows, err := s.SupplierReport(ctx)
		if err != nil {
			return nil, err
		}
		found := discrepancies(model.OwnerSupplier, rows)
		prom.SetDriftOwners(string(model.OwnerSupplier), len(found))
		out = append(out, found...)
	}
	for _, d := range out {
		logger.Warn("balance drift detected",
			"owner", string(d.Owner), "owner_id", d.OwnerID,
			"cached", d.Cached.String(), "computed", d.Computed.String())
	}
	return out, nil
}

// repairOwner recomputes one owner balance under its row lock. It returns nil
// when the drift is gone once the lock is held or the owner was deleted.
func (s *ReportService) repairOwner(ctx context.Context, d *model.Discrepancy) (*model.Discrepancy, error) {
	var (
		balances       BalanceLocker
		invoices, cash Aggregator
		notFound       error
	)
	if d.Owner == model.OwnerCustomer {
		balances, invoices, cash, notFound = s.customers, s.sales, s.collections, repository.ErrCustomerNotFound
	} else {
		balances, invoices, cash, notFound = s.suppliers, s.purchases, s.payments, repository.ErrSupplierNotFound
	}

	cached, err := balances.LockBalance(ctx, d.OwnerID)
	if err != nil {
		if errors.Is(err, notFound) {
			return nil, nil
		}
		return nil, err
	}
	totals, err := ownerTotals(ctx, invoices, cash, d.OwnerID)
	if err != nil {
		return nil, err
	}
	computed := totals.Balance()
	if computed.Equal(cached) {
		return nil, nil
	}
	if err := balances.SetBalance(ctx, d.OwnerID, computed); err != nil {
		return nil, err
	}
	return &model.Discrepancy{
		Owner:    d.Owner,
		OwnerID:  d.OwnerID,
		Name:     d.Name,
		Cached:   cached,
		Computed: computed,
		Drift:    cached.Sub(computed),
	}, nil
}

func discrepancies(owner model.OwnerType, rows []*model.PartyReportRow) []*model.Discrepancy {
	var out []*model.Discrepancy
	for _, r := range rows {
		if !r.Drift {
			continue
		}
		out = append(out, &model.Discrepancy{
			Owner:    owner,
			OwnerID:  r.ID,
			Name:     r.Name,
			Cached:   r.Balance,
			Computed: r.Computed,
			Drift:    r.Balance.Sub(r.Computed),
		})
	}
	return out
}

// Repair rewrites every drifted cached balance with the value computed from
// records, in one transaction. Each drifted owner is locked and recomputed
// before it is written, so a mutation that commits during the scan is kept.
// It returns what was repaired.
func (s *ReportService) Repair(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error) {
	var repaired []*model.Discrepancy
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.Reconcile(ctx, owner)
		if err != nil {
			return err
		}
		sort.Slice(found, func(i, j int) bool {
			if found[i].Owner != found[j].Owner {
				return found[i].Owner < found[j].Owner
			}
			return found[i].OwnerID < found[j].OwnerID
		})
		for _, d := range found {
			fixed, err := s.repairOwner(ctx, d)
			if err != nil {
				return err
			}
			if fixed != nil {
				repaired = append(repaired, fixed)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("balance repair failed", "error", err)
		var serr *model.StorageError
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, model.NewStorageError("repair balances", err)
	}
	fixed := map[model.OwnerType]bool{}
	for _, d := range repaired {
		fixed[d.Owner] = true
		logger.Info("balance repaired", "owner", string(d.Owner), "owner_id", d.OwnerID, "balance", d.Computed.String())
	}
	for o := range fixed {
		prom.SetDriftOwners(string(o), 0)
	}
	return repaired, nil
}
