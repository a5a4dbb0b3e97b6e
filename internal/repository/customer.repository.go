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
	ErrCustomerNotFound = errors.New("customer not found")
)

type CustomerRepository struct {
	*sqldb.DB
	balances balanceStore
}

func NewCustomerRepository(db *sqldb.DB) *CustomerRepository {
	return &CustomerRepository{
		DB:       db,
		balances: balanceStore{db: db, table: CustomerEntity{}.TableName(), notFound: ErrCustomerNotFound},
	}
}

// Create stores a new customer. The balance always starts at zero.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(customer)
	entity.ID = 0
	entity.Balance = money(decimal.Zero)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// List returns every customer, newest first.
func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

// Update overwrites the contact fields. The balance column is left untouched.
func (r *CustomerRepository) Update(ctx context.Context, id int64, in model.PartyInput) (*model.Customer, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
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
		return nil, ErrCustomerNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&CustomerEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.balances.exists(ctx, id)
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, CustomerEntity{}.TableName())
}

// HasRecords reports whether any sales invoice or collection references the
// customer.
func (r *CustomerRepository) HasRecords(ctx context.Context, id int64) (bool, error) {
	for _, table := range []string{SalesInvoiceEntity{}.TableName(), CollectionEntity{}.TableName()} {
		var n int64
		err := r.Read(ctx).WithContext(ctx).Table(table).Where("customer_id = ?", id).Limit(1).Count(&n).Error
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// AdjustBalance adds delta to the customer balance under a row lock and
// returns the resulting balance.
func (r *CustomerRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return r.balances.adjust(ctx, id, delta)
}

// LockBalance locks the customer row for the rest of the transaction and
// returns its cached balance.
func (r *CustomerRepository) LockBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balances.lock(ctx, id)
}

func (r *CustomerRepository) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balances.get(ctx, id)
}

// SetBalance overwrites the cached balance. Only reconciliation repair uses it.
func (r *CustomerRepository) SetBalance(ctx context.Context, id int64, value decimal.Decimal) error {
	return r.balances.set(ctx, id, value)
}

func (r *CustomerRepository) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	return r.balances.total(ctx)
}

// Balances returns the cached balance of every customer keyed by id.
func (r *CustomerRepository) Balances(ctx context.Context) (map[int64]decimal.Decimal, error) {
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
