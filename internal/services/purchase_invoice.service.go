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

type purchaseInvoiceFields struct {
	number     string
	supplierID int64
	amount     decimal.Decimal
	date       time.Time
}

func parsePurchaseInvoice(in model.PurchaseInvoiceInput) (model.PurchaseInvoiceInput, purchaseInvoiceFields, error) {
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	if err := model.Validate(in); err != nil {
		return in, purchaseInvoiceFields{}, err
	}
	amount, err := model.ParseAmount(string(in.Amount))
	if err != nil {
		return in, purchaseInvoiceFields{}, err
	}
	date, err := model.ParseDate("invoice_date", in.InvoiceDate)
	if err != nil {
		return in, purchaseInvoiceFields{}, err
	}
	return in, purchaseInvoiceFields{number: in.InvoiceNumber, supplierID: in.SupplierID, amount: amount, date: date}, nil
}

func (s *LedgerService) CreatePurchaseInvoice(ctx context.Context, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error) {
	in, f, err := parsePurchaseInvoice(in)
	if err != nil {
		return nil, s.reject(balance.PurchaseInvoice, opCreate, err)
	}

	var created *model.PurchaseInvoice
	err = s.mutate(ctx, balance.PurchaseInvoice, opCreate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		if err := s.requireOwner(ctx, model.OwnerSupplier, f.supplierID, "supplier_id"); err != nil {
			return 0, nil, err
		}
		if taken, err := s.purchases.NumberExists(ctx, f.number, 0); err != nil {
			return 0, nil, err
		} else if taken {
			return 0, nil, duplicateNumber()
		}

		inv, err := s.purchases.Create(ctx, &model.PurchaseInvoice{
			InvoiceNumber: f.number,
			SupplierID:    f.supplierID,
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
		return inv.ID, balance.Create(balance.PurchaseInvoice, inv.SupplierID, inv.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePurchaseInvoice edits an invoice. Moving it to another supplier reverses
// the full old amount on the old supplier and applies the full new amount to
// the new one.
func (s *LedgerService) UpdatePurchaseInvoice(ctx context.Context, id int64, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error) {
	in, f, err := parsePurchaseInvoice(in)
	if err != nil {
		return nil, s.reject(balance.PurchaseInvoice, opUpdate, err)
	}

	var updated *model.PurchaseInvoice
	err = s.mutate(ctx, balance.PurchaseInvoice, opUpdate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.purchases.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPurchaseInvoiceNotFound, "purchase invoice", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerSupplier, old.SupplierID); err != nil {
			return 0, nil, err
		}
		if f.supplierID != old.SupplierID {
			if err := s.requireOwner(ctx, model.OwnerSupplier, f.supplierID, "supplier_id"); err != nil {
				return 0, nil, err
			}
		}
		if taken, err := s.purchases.NumberExists(ctx, f.number, id); err != nil {
			return 0, nil, err
		} else if taken {
			return 0, nil, duplicateNumber()
		}

		inv, err := s.purchases.Update(ctx, &model.PurchaseInvoice{
			ID:            id,
			InvoiceNumber: f.number,
			SupplierID:    f.supplierID,
			Amount:        f.amount,
			Description:   in.Description,
			InvoiceDate:   model.NewDate(f.date),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
				return 0, nil, duplicateNumber()
			}
			return 0, nil, storageOrNotFound(err, repository.ErrPurchaseInvoiceNotFound, "purchase invoice", id)
		}
		updated = inv
		return id, balance.Edit(balance.PurchaseInvoice, old.SupplierID, old.Amount, inv.SupplierID, inv.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LedgerService) DeletePurchaseInvoice(ctx context.Context, id int64) error {
	return s.mutate(ctx, balance.PurchaseInvoice, opDelete, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.purchases.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPurchaseInvoiceNotFound, "purchase invoice", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerSupplier, old.SupplierID); err != nil {
			return 0, nil, err
		}
		if err := s.purchases.Delete(ctx, id); err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPurchaseInvoiceNotFound, "purchase invoice", id)
		}
		return id, balance.Delete(balance.PurchaseInvoice, old.SupplierID, old.Amount), nil
	})
}

func (s *LedgerService) GetPurchaseInvoice(ctx context.Context, id int64) (*model.PurchaseInvoice, error) {
	inv, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrPurchaseInvoiceNotFound, "purchase invoice", id)
	}
	return inv, nil
}

func (s *LedgerService) ListPurchaseInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error) {
	list, err := s.purchases.List(ctx, filter)
	if err != nil {
		return nil, model.NewStorageError("list purchase invoices", err)
	}
	return list, nil
}
