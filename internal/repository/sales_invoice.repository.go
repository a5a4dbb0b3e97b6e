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
	ErrSalesInvoiceNotFound   = errors.New("sales invoice not found")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

type SalesInvoiceRepository struct {
	*sqldb.DB
}

func NewSalesInvoiceRepository(db *sqldb.DB) *SalesInvoiceRepository {
	return &SalesInvoiceRepository{
		db,
	}
}

func (r *SalesInvoiceRepository) Create(ctx context.Context, invoice *model.SalesInvoice) (*model.SalesInvoice, error) {
	entity := toSalesInvoiceEntity(invoice)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, err
	}
	return toSalesInvoiceModel(entity), nil
}

func (r *SalesInvoiceRepository) GetByID(ctx context.Context, id int64) (*model.SalesInvoice, error) {
	var entity SalesInvoiceEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalesInvoiceNotFound
		}
		return nil, err
	}
	return toSalesInvoiceModel(&entity), nil
}

func (r *SalesInvoiceRepository) List(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error) {
	var entities []*SalesInvoiceEntity
	q := applyFilter(r.Read(ctx).WithContext(ctx), "customer_id", "invoice_date", filter)
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	invoices := make([]*model.SalesInvoice, len(entities))
	for i, e := range entities {
		invoices[i] = toSalesInvoiceModel(e)
	}
	return invoices, nil
}

// Update saves every editable field of invoice. CreatedAt and CreatedBy are
// kept from the stored row.
func (r *SalesInvoiceRepository) Update(ctx context.Context, invoice *model.SalesInvoice) (*model.SalesInvoice, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&SalesInvoiceEntity{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"customer_id":    invoice.CustomerID,
			"amount":         invoice.Amount,
			"description":    invoice.Description,
			"invoice_date":   invoice.InvoiceDate.Time,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSalesInvoiceNotFound
	}
	return r.GetByID(ctx, invoice.ID)
}

func (r *SalesInvoiceRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&SalesInvoiceEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSalesInvoiceNotFound
	}
	return nil
}

// NumberExists reports whether number is used by any sales invoice other than
// excludeID. Pass 0 to check against all invoices.
func (r *SalesInvoiceRepository) NumberExists(ctx context.Context, number string, excludeID int64) (bool, error) {
	var n int64
	q := r.Read(ctx).WithContext(ctx).
		Model(&SalesInvoiceEntity{}).
		Where("invoice_number = ?", number)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SalesInvoiceRepository) TotalsByOwner(ctx context.Context) (map[int64]decimal.Decimal, error) {
	return sumByOwner(ctx, r.DB, SalesInvoiceEntity{}.TableName(), "customer_id")
}

func (r *SalesInvoiceRepository) TotalForOwner(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	return sumForOwner(ctx, r.DB, SalesInvoiceEntity{}.TableName(), "customer_id", customerID)
}

func (r *SalesInvoiceRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, SalesInvoiceEntity{}.TableName())
}
