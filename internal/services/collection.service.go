package services

import (
	"context"
	"time"

	"github.com/nimasrn/trade-ledger/internal/balance"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

type collectionFields struct {
	customerID int64
	amount     decimal.Decimal
	date       time.Time
}

func parseCollection(in model.CollectionInput) (collectionFields, error) {
	if err := model.Validate(in); err != nil {
		return collectionFields{}, err
	}
	amount, err := model.ParseAmount(string(in.Amount))
	if err != nil {
		return collectionFields{}, err
	}
	date, err := model.ParseDate("collection_date", in.CollectionDate)
	if err != nil {
		return collectionFields{}, err
	}
	return collectionFields{customerID: in.CustomerID, amount: amount, date: date}, nil
}

func (s *LedgerService) CreateCollection(ctx context.Context, in model.CollectionInput) (*model.Collection, error) {
	f, err := parseCollection(in)
	if err != nil {
		return nil, s.reject(balance.Collection, opCreate, err)
	}

	var created *model.Collection
	err = s.mutate(ctx, balance.Collection, opCreate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		if err := s.requireOwner(ctx, model.OwnerCustomer, f.customerID, "customer_id"); err != nil {
			return 0, nil, err
		}
		c, err := s.collections.Create(ctx, &model.Collection{
			CustomerID:     f.customerID,
			Amount:         f.amount,
			CollectionDate: model.NewDate(f.date),
			Notes:          in.Notes,
			CreatedBy:      actorRef(ctx),
		})
		if err != nil {
			return 0, nil, err
		}
		created = c
		return c.ID, balance.Create(balance.Collection, c.CustomerID, c.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *LedgerService) UpdateCollection(ctx context.Context, id int64, in model.CollectionInput) (*model.Collection, error) {
	f, err := parseCollection(in)
	if err != nil {
		return nil, s.reject(balance.Collection, opUpdate, err)
	}

	var updated *model.Collection
	err = s.mutate(ctx, balance.Collection, opUpdate, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.collections.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrCollectionNotFound, "collection", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerCustomer, old.CustomerID); err != nil {
			return 0, nil, err
		}
		if f.customerID != old.CustomerID {
			if err := s.requireOwner(ctx, model.OwnerCustomer, f.customerID, "customer_id"); err != nil {
				return 0, nil, err
			}
		}
		c, err := s.collections.Update(ctx, &model.Collection{
			ID:             id,
			CustomerID:     f.customerID,
			Amount:         f.amount,
			CollectionDate: model.NewDate(f.date),
			Notes:          in.Notes,
		})
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrCollectionNotFound, "collection", id)
		}
		updated = c
		return id, balance.Edit(balance.Collection, old.CustomerID, old.Amount, c.CustomerID, c.Amount), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LedgerService) DeleteCollection(ctx context.Context, id int64) error {
	return s.mutate(ctx, balance.Collection, opDelete, func(ctx context.Context) (int64, []balance.Adjustment, error) {
		old, err := s.collections.GetByID(ctx, id)
		if err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrCollectionNotFound, "collection", id)
		}
		if err := s.requireStoredOwner(ctx, model.OwnerCustomer, old.CustomerID); err != nil {
			return 0, nil, err
		}
		if err := s.collections.Delete(ctx, id); err != nil {
			return 0, nil, storageOrNotFound(err, repository.ErrCollectionNotFound, "collection", id)
		}
		return id, balance.Delete(balance.Collection, old.CustomerID, old.Amount), nil
	})
}

func (s *LedgerService) GetCollection(ctx context.Context, id int64) (*model.Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, repository.ErrCollectionNotFound, "collection", id)
	}
	return c, nil
}

func (s *LedgerService) ListCollections(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error) {
	list, err := s.collections.List(ctx, filter)
	if err != nil {
		return nil, model.NewStorageError("list collections", err)
	}
	return list, nil
}
