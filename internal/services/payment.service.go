package services

import (
	"context"
	"time"

	"github.com/nimasrn/trade-ledger/internal/balance"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

type paymentFields struct {
	supplierID int64
	amount     decimal.Decimal
	date       time.Time
}

func parsePayment(in model.PaymentInput) (paymentFields, error) {
	if err := model.Validate(in); err != nil {
		return paymentFields{}, err
	}
	amount, err := model.ParseAmount(string(in.Amount))
	if err != nil {
		return paymentFields{}, err
	}
	date, err := model.ParseDate("payment_date", in.PaymentDate)
	if err != nil {
		return paymentFields{}, err
	}
	return paymentFields{supplierID: in.SupplierID, amount: amount, date: date}, nil
}

func (s *LedgerService) CreatePayment(ctx context.Context, in model.PaymentInput) (*model.Payment, error) {
	f, err := parsePayment(in)
	if err != nil {
		return nil, s.reject(balance.Payment, opCreate, err)
	}

	var created *model.Payment
	err = s.mutate(ctx, balance.Payment, opCreate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		if err := s.requireOwner(ctx, model.OwnerSupplier, f.supplierID, "supplier_id"); err != nil {
			return 0, nil, err
		}
		c, err := s.payments.Create(ctx, &model.Payment{
			SupplierID:     f.supplierID,
			Amount:         f.amount,
			PaymentDate: model.NewDate(f.date),
			Notes:          in.Notes,
			CreatedBy:      actorRef(ctx),
		})
		if err != nil {
			return 0, nil, err
		}
		created = c
		return c.ID, balance.Create(balance.Payment, c.SupplierID, c.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *LedgerService) UpdatePayment(ctx context.Context, id int64, in model.PaymentInput) (*model.Payment, error) {
	f, err := parsePayment(in)
	if err != nil {
		return nil, s.reject(balance.Payment, opUpdate, err)
	}

	var updated *model.Payment
	err = s.mutate(ctx, balance.Payment, opUpdate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.payments.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPaymentNotFound, "payment", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerSupplier, old.SupplierID); err != nil {
			return 0, nil, err
		}
		if f.supplierID != old.SupplierID {
			if err := s.requireOwner(ctx, model.OwnerSupplier, f.supplierID, "supplier_id"); err != nil {
				return 0, nil, err
			}
		}
		c, err := s.payments.Update(ctx, &model.Payment{
			ID:             id,
			SupplierID:     f.supplierID,
			Amount:         f.amount,
			PaymentDate: model.NewDate(f.date),
			Notes:          in.Notes,
		})
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPaymentNotFound, "payment", id)
		}
		updated = c
		return id, balance.Edit(balance.Payment, old.SupplierID, old.Amount, c.SupplierID, c.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LedgerService) DeletePayment(ctx context.Context, id int64) error {
	return s.mutate(ctx, balance.Payment, opDelete, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.payments.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPaymentNotFound, "payment", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerSupplier, old.SupplierID); err != nil {
			return 0, nil, err
		}
		if err := s.payments.Delete(ctx, id); err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrPaymentNotFound, "payment", id)
		}
		return id, balance.Delete(balance.Payment, old.SupplierID, old.Amount), nil
	})
}

func (s *LedgerService) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	c, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrPaymentNotFound, "payment", id)
	}
	return c, nil
}

func (s *LedgerService) ListPayments(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error) {
	list, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, model.NewStorageError("list payments", err)
	}
	return list, nil
}
