package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSupplierNotFound = errors.New("supplier not found")
)

type SupplierRepository struct {
	*sqldb.DB
	balances balanceStore
}

func NewSupplierRepository(db *sqldb.DB) *SupplierRepository {
	return &SupplierRepository{
		DB:       db,
		balances: balanceStore{db: db, table: SupplierEntity{}.TableName(), notFound: ErrSupplierNotFound},
	}
}

// Create stores a new supplier. The balance always starts at zero.
func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error) {
	entity := toSupplierEntity(supplier)
	entity.ID = 0
	entity.Balance = money(decimal.Zero)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toSupplierModel(entity), nil
}

func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*model.Supplier, error) {
	var entity SupplierEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return toSupplierModel(&entity), nil
}

// List returns every supplier, newest first.
func (r *SupplierRepository) List(ctx context.Context) ([]*model.Supplier, error) {
	var entities []*SupplierEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toSupplierModels(entities), nil
}

// Update overwrites the contact fields. The balance column is left untouched.
func (r *SupplierRepository) Update(ctx context.Context, id int64, in model.PartyInput) (*model.Supplier, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&SupplierEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":    in.Name,
			"phone":   in.Phone,
			"address": in.Address,
			"email":   in.Email,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSupplierNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&SupplierEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *SupplierRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.balances.exists(ctx, id)
}

func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, SupplierEntity{}.TableName())
}

// HasRecords reports whether any purchase invoice or payment references the
// supplier.
func (r *SupplierRepository) HasRecords(ctx context.Context, id int64) (bool, error) {
	for _, table := range []string{PurchaseInvoiceEntity{}.TableName(), PaymentEntity{}.TableName()} {
		var n int64
		err := r.Read(ctx).WithContext(ctx).Table(table).Where("supplier_id = ?", id).Limit(1).Count(&n).Error
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// AdjustBalance adds delta to the supplier balance under a row lock and
// returns the resulting balance.
func (r *SupplierRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return r.balances.adjust(ctx, id, delta)
}

// LockBalance locks the supplier row for the rest of the transaction and
// returns its cached balance.
func (r *SupplierRepository) LockBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balances.lock(ctx, id)
}

func (r *SupplierRepository) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balances.get(ctx, id)
}

// SetBalance overwrites the cached balance. Only reconciliation repair uses it.
func (r *SupplierRepository) SetBalance(ctx context.Context, id int64, value decimal.Decimal) error {
	return r.balances.set(ctx, id, value)
}

func (r *SupplierRepository) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	return r.balances.total(ctx)
}

// Balances returns the cached balance of every supplier keyed by id.
func (r *SupplierRepository) Balances(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := r.balances.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Balance.Round(model.AmountScale)
	}
	return out, nil
}
