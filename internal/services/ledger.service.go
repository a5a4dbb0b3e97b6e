package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nimasrn/trade-ledger/internal/balance"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/prom"
	"github.com/shopspring/decimal"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opGet    = "get"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BalanceRepository is the owner side of a balance mutation.
type BalanceRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type SalesInvoiceRepository interface {
	Create(ctx context.Context, invoice *model.SalesInvoice) (*model.SalesInvoice, error)
	GetByID(ctx context.Context, id int64) (*model.SalesInvoice, error)
	List(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error)
	Update(ctx context.Context, invoice *model.SalesInvoice) (*model.SalesInvoice, error)
	Delete(ctx context.Context, id int64) error
	NumberExists(ctx context.Context, number string, excludeID int64) (bool, error)
}

type PurchaseInvoiceRepository interface {
	Create(ctx context.Context, invoice *model.PurchaseInvoice) (*model.PurchaseInvoice, error)
	GetByID(ctx context.Context, id int64) (*model.PurchaseInvoice, error)
	List(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error)
	Update(ctx context.Context, invoice *model.PurchaseInvoice) (*model.PurchaseInvoice, error)
	Delete(ctx context.Context, id int64) error
	NumberExists(ctx context.Context, number string, excludeID int64) (bool, error)
}

type CollectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) (*model.Collection, error)
	GetByID(ctx context.Context, id int64) (*model.Collection, error)
	List(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error)
	Update(ctx context.Context, collection *model.Collection) (*model.Collection, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	List(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// LedgerRepositories groups the stores the ledger service writes to.
type LedgerRepositories struct {
	Tx               Transactor
	Customers        BalanceRepository
	Suppliers        BalanceRepository
	SalesInvoices    SalesInvoiceRepository
	PurchaseInvoices PurchaseInvoiceRepository
	Collections      CollectionRepository
	Payments         PaymentRepository
}

// LedgerService creates, edits and deletes financial-effect records. Every
// mutation writes the record and the owner balance in one transaction.
type LedgerService struct {
	tx          Transactor
	customers   BalanceRepository
	suppliers   BalanceRepository
	sales       SalesInvoiceRepository
	purchases   PurchaseInvoiceRepository
	collections CollectionRepository
	payments    PaymentRepository
}

func NewLedgerService(r LedgerRepositories) *LedgerService {
	return &LedgerService{
		tx:          r.Tx,
		customers:   r.Customers,
		suppliers:   r.Suppliers,
		sales:       r.SalesInvoices,
		purchases:   r.PurchaseInvoices,
		collections: r.Collections,
		payments:    r.Payments,
	}
}

type actorKey struct{}

// WithActor records the authenticated user id on ctx. New records are stamped
// with it as their creator.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func ActorFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorKey{}).(int64)
	return id, ok && id > 0
}

func actorRef(ctx context.Context) *int64 {
	if id, ok := ActorFrom(ctx); ok {
		return &id
	}
	return nil
}

// mutate runs write inside a transaction and then applies the balance
// adjustments it returns. Nothing is committed unless both succeed.
func (s *LedgerService) mutate(ctx context.Context, kind balance.Kind, op string, write func(ctx context.Context) (int64, []balance.Adjustment, error)) error {
	var (
		id   int64
		adjs []balance.Adjustment
	)
	start := time.Now()
	defer func() { prom.ObserveMutation(kind.String(), op, time.Since(start)) }()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		id, adjs, err = write(ctx)
		if err != nil {
			return err
		}
		return s.apply(ctx, adjs)
	})
	if err != nil {
		return s.reject(kind, op, err)
	}

	prom.RecordMutation(kind.String(), op)
	for _, a := range adjs {
		logger.Info("ledger record committed",
			"record", kind.String(), "op", op, "id", id,
			"owner", string(a.Owner), "owner_id", a.OwnerID, "delta", a.Delta.String())
	}
	if len(adjs) == 0 {
		logger.Info("ledger record committed", "record", kind.String(), "op", op, "id", id)
	}
	return nil
}

// apply adjusts owner balances, locking rows in ascending owner id order.
func (s *LedgerService) apply(ctx context.Context, adjs []balance.Adjustment) error {
	for _, a := range balance.LockOrder(adjs) {
		if _, err := s.ownerRepo(a.Owner).AdjustBalance(ctx, a.OwnerID, a.Delta); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) || errors.Is(err, repository.ErrSupplierNotFound) {
				return model.NewNotFoundError(string(a.Owner), a.OwnerID)
			}
			if errors.Is(err, repository.ErrBalanceOutOfRange) {
				return model.NewValidationError("amount", "would take the "+string(a.Owner)+" balance past 18 integer digits")
			}
			return err
		}
	}
	return nil
}

func (s *LedgerService) ownerRepo(owner model.OwnerType) BalanceRepository {
	if owner == model.OwnerCustomer {
		return s.customers
	}
	return s.suppliers
}

// requireOwner rejects a caller supplied owner id that does not exist.
func (s *LedgerService) requireOwner(ctx context.Context, owner model.OwnerType, id int64, field string) error {
	ok, err := s.ownerRepo(owner).Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewValidationError(field, "does not reference an existing "+string(owner))
	}
	return nil
}

// requireStoredOwner checks the owner referenced by a stored record before
// its balance is touched.
func (s *LedgerService) requireStoredOwner(ctx context.Context, owner model.OwnerType, id int64) error {
	ok, err := s.ownerRepo(owner).Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotFoundError(string(owner), id)
	}
	return nil
}

// reject classifies err into the error taxonomy, counts and logs it.
func (s *LedgerService) reject(kind balance.Kind, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		prom.RecordRejection(kind.String(), op, "validation")
		logger.Warn("ledger mutation rejected", "record", kind.String(), "op", op, "error", err)
		return err
	case errors.Is(err, model.ErrNotFound):
		prom.RecordRejection(kind.String(), op, "not_found")
		logger.Warn("ledger mutation rejected", "record", kind.String(), "op", op, "error", err)
		return err
	default:
		prom.RecordRejection(kind.String(), op, "storage")
		logger.Error("ledger mutation failed", "record", kind.String(), "op", op, "error", err)
		var serr *model.StorageError
		if errors.As(err, &serr) {
			return err
		}
		return model.NewStorageError(op+" "+strings.ReplaceAll(kind.String(), "_", " "), err)
	}
}

func duplicateNumber() error {
	return model.NewValidationError("invoice_number", "is already in use")
}

// storageOrNotFound maps a repository lookup error. notFound is the
// repository sentinel for a missing record.
func storageOrNotFound(err, notFound error, entity string, id int64) error {
	if errors.Is(err, notFound) {
		return model.NewNotFoundError(entity, id)
	}
	return err
}

// lookupError maps a read-path repository error into the taxonomy.
func lookupError(err, notFound error, entity string, id int64) error {
	if errors.Is(err, notFound) {
		return model.NewNotFoundError(entity, id)
	}
	return model.NewStorageError("get "+entity, err)
}
