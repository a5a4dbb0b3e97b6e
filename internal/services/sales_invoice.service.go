package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nimasrn/trade-ledger/internal/balance"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

type salesInvoiceFields struct {
	number     string
	customerID int64
	amount     decimal.Decimal
	date       time.Time
}

func parseSalesInvoice(in model.SalesInvoiceInput) (model.SalesInvoiceInput, salesInvoiceFields, error) {
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	if err := model.Validate(in); err != nil {
		return in, salesInvoiceFields{}, err
	}
	amount, err := model.ParseAmount(string(in.Amount))
	if err != nil {
		return in, salesInvoiceFields{}, err
	}
	date, err := model.ParseDate("invoice_date", in.InvoiceDate)
	if err != nil {
		return in, salesInvoiceFields{}, err
	}
	return in, salesInvoiceFields{number: in.InvoiceNumber, customerID: in.CustomerID, amount: amount, date: date}, nil
}

func (s *LedgerService) CreateSalesInvoice(ctx context.Context, in model.SalesInvoiceInput) (*model.SalesInvoice, error) {
	in, f, err := parseSalesInvoice(in)
	if err != nil {
		return nil, s.reject(balance.SalesInvoice, opCreate, err)
	}

	var created *model.SalesInvoice
	err = s.mutate(ctx, balance.SalesInvoice, opCreate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		if err := s.requireOwner(ctx, model.OwnerCustomer, f.customerID, "customer_id"); err != nil {
			return 0, nil, err
		}
		if taken, err := s.sales.NumberExists(ctx, f.number, 0); err != nil {
			return 0, nil, err
		} else if taken {
			return 0, nil, duplicateNumber()
		}

		inv, err := s.sales.Create(ctx, &model.SalesInvoice{
			InvoiceNumber: f.number,
			CustomerID:    f.customerID,
			Amount:        f.amount,
			Description:   in.Description,
			InvoiceDate:   model.NewDate(f.date),
			CreatedBy:     actorRef(ctx),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
				return 0, nil, duplicateNumber()
			}
			return 0, nil, err
		}
		created = inv
		return inv.ID, balance.Create(balance.SalesInvoice, inv.CustomerID, inv.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateSalesInvoice edits an invoice. Moving it to another customer reverses
// the full old amount on the old customer and applies the full new amount to
// the new one.
func (s *LedgerService) UpdateSalesInvoice(ctx context.Context, id int64, in model.SalesInvoiceInput) (*model.SalesInvoice, error) {
	in, f, err := parseSalesInvoice(in)
	if err != nil {
		return nil, s.reject(balance.SalesInvoice, opUpdate, err)
	}

	var updated *model.SalesInvoice
	err = s.mutate(ctx, balance.SalesInvoice, opUpdate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.sales.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrSalesInvoiceNotFound, "sales invoice", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerCustomer, old.CustomerID); err != nil {
			return 0, nil, err
		}
		if f.customerID != old.CustomerID {
			if err := s.requireOwner(ctx, model.OwnerCustomer, f.customerID, "customer_id"); err != nil {
				return 0, nil, err
			}
		}
		if taken, err := s.sales.NumberExists(ctx, f.number, id); err != nil {
			return 0, nil, err
		} else if taken {
			return 0, nil, duplicateNumber()
		}

		inv, err := s.sales.Update(ctx, &model.SalesInvoice{
			ID:            id,
			InvoiceNumber: f.number,
			CustomerID:    f.customerID,
			Amount:        f.amount,
			Description:   in.Description,
			InvoiceDate:   model.NewDate(f.date),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
				return 0, nil, duplicateNumber()
			}
			return 0, nil, storageOrNotFound(err, repository.ErrSalesInvoiceNotFound, "sales invoice", id)
		}
		updated = inv
		return id, balance.Edit(balance.SalesInvoice, old.CustomerID, old.Amount, inv.CustomerID, inv.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LedgerService) DeleteSalesInvoice(ctx context.Context, id int64) error {
	return s.mutate(ctx, balance.SalesInvoice, opDelete, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.sales.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrSalesInvoiceNotFound, "sales invoice", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerCustomer, old.CustomerID); err != nil {
			return 0, nil, err
		}
		if err := s.sales.Delete(ctx, id); err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrSalesInvoiceNotFound, "sales invoice", id)
		}
		return id, balance.Delete(balance.SalesInvoice, old.CustomerID, old.Amount), nil
	})
}

func (s *LedgerService) GetSalesInvoice(ctx context.Context, id int64) (*model.SalesInvoice, error) {
	inv, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrSalesInvoiceNotFound, "sales invoice", id)
	}
	return inv, nil
}

func (s *LedgerService) ListSalesInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error) {
	list, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, model.NewStorageError("list sales invoices", err)
	}
	return list, nil
}
