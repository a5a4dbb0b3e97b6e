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
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepository struct {
	*sqldb.DB
}

func NewPaymentRepository(db *sqldb.DB) *PaymentRepository {
	return &PaymentRepository{
		db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	entity := toPaymentEntity(payment)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPaymentModel(entity), nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) List(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error) {
	var entities []*PaymentEntity
	q := applyFilter(r.Read(ctx).WithContext(ctx), "supplier_id", "payment_date", filter)
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	payments := make([]*model.Payment, len(entities))
	for i, e := range entities {
		payments[i] = toPaymentModel(e)
	}
	return payments, nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&PaymentEntity{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"supplier_id":     payment.SupplierID,
			"amount":          payment.Amount,
			"payment_date": payment.PaymentDate.Time,
			"notes":           payment.Notes,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return r.GetByID(ctx, payment.ID)
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&PaymentEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) TotalsByOwner(ctx context.Context) (map[int64]decimal.Decimal, error) {
	return sumByOwner(ctx, r.DB, PaymentEntity{}.TableName(), "supplier_id")
}

func (r *PaymentRepository) TotalForOwner(ctx context.Context, supplierID int64) (decimal.Decimal, error) {
	return sumForOwner(ctx, r.DB, PaymentEntity{}.TableName(), "supplier_id", supplierID)
}

func (r *PaymentRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, PaymentEntity{}.TableName())
}
