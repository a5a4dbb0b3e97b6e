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
	ErrPurchaseInvoiceNotFound = errors.New("purchase invoice not found")
)

type PurchaseInvoiceRepository struct {
	*sqldb.DB
}

func NewPurchaseInvoiceRepository(db *sqldb.DB) *PurchaseInvoiceRepository {
	return &PurchaseInvoiceRepository{
		db,
	}
}

func (r *PurchaseInvoiceRepository) Create(ctx context.Context, invoice *model.PurchaseInvoice) (*model.PurchaseInvoice, error) {
	entity := toPurchaseInvoiceEntity(invoice)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvoiceNumber
		}
		return nil, err
	}
	return toPurchaseInvoiceModel(entity), nil
}

func (r *PurchaseInvoiceRepository) GetByID(ctx context.Context, id int64) (*model.PurchaseInvoice, error) {
	var entity PurchaseInvoiceEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseInvoiceNotFound
		}
		return nil, err
	}
	return toPurchaseInvoiceModel(&entity), nil
}

func (r *PurchaseInvoiceRepository) List(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error) {
	var entities []*PurchaseInvoiceEntity
	q := applyFilter(r.Read(ctx).WithContext(ctx), "supplier_id", "invoice_date", filter)
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	invoices := make([]*model.PurchaseInvoice, len(entities))
	for i, e := range entities {
		invoices[i] = toPurchaseInvoiceModel(e)
	}
	return invoices, nil
}

// Update saves every editable field of invoice. CreatedAt and CreatedBy are
// kept from the stored row.
func (r *PurchaseInvoiceRepository) Update(ctx context.Context, invoice *model.PurchaseInvoice) (*model.PurchaseInvoice, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&PurchaseInvoiceEntity{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"supplier_id":    invoice.SupplierID,
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
		return nil, ErrPurchaseInvoiceNotFound
	}
	return r.GetByID(ctx, invoice.ID)
}

func (r *PurchaseInvoiceRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&PurchaseInvoiceEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPurchaseInvoiceNotFound
	}
	return nil
}

// NumberExists reports whether number is used by any purchase invoice other than
// excludeID. Pass 0 to check against all invoices.
func (r *PurchaseInvoiceRepository) NumberExists(ctx context.Context, number string, excludeID int64) (bool, error) {
	var n int64
	q := r.Read(ctx).WithContext(ctx).
		Model(&PurchaseInvoiceEntity{}).
		Where("invoice_number = ?", number)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PurchaseInvoiceRepository) TotalsByOwner(ctx context.Context) (map[int64]decimal.Decimal, error) {
	return sumByOwner(ctx, r.DB, PurchaseInvoiceEntity{}.TableName(), "supplier_id")
}

func (r *PurchaseInvoiceRepository) TotalForOwner(ctx context.Context, supplierID int64) (decimal.Decimal, error) {
	return sumForOwner(ctx, r.DB, PurchaseInvoiceEntity{}.TableName(), "supplier_id", supplierID)
}

func (r *PurchaseInvoiceRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, PurchaseInvoiceEntity{}.TableName())
}
