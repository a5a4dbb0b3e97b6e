package repository

import (
	"time"

	"github.com/nimasrn/trade-ledger/internal/model"
)

type SalesInvoiceEntity struct {
	ID            int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceNumber string          `db:"invoice_number" gorm:"column:invoice_number;size:50;not null;uniqueIndex"`
	CustomerID    int64           `db:"customer_id"    gorm:"column:customer_id;not null;index"`
	Amount        Money           `db:"amount"         gorm:"column:amount;not null"`
	Description   string          `db:"description"    gorm:"column:description"`
	InvoiceDate   time.Time       `db:"invoice_date"   gorm:"column:invoice_date;type:date;not null"`
	CreatedAt     time.Time       `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	CreatedBy     *int64          `db:"created_by"     gorm:"column:created_by"`
}

func (SalesInvoiceEntity) TableName() string {
	return "sales_invoice"
}

type PurchaseInvoiceEntity struct {
	ID            int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceNumber string          `db:"invoice_number" gorm:"column:invoice_number;size:50;not null;uniqueIndex"`
	SupplierID    int64           `db:"supplier_id"    gorm:"column:supplier_id;not null;index"`
	Amount        Money           `db:"amount"         gorm:"column:amount;not null"`
	Description   string          `db:"description"    gorm:"column:description"`
	InvoiceDate   time.Time       `db:"invoice_date"   gorm:"column:invoice_date;type:date;not null"`
	CreatedAt     time.Time       `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	CreatedBy     *int64          `db:"created_by"     gorm:"column:created_by"`
}

func (PurchaseInvoiceEntity) TableName() string {
	return "purchase_invoice"
}

type CollectionEntity struct {
	ID             int64           `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID     int64           `db:"customer_id"     gorm:"column:customer_id;not null;index"`
	Amount         Money           `db:"amount"          gorm:"column:amount;not null"`
	CollectionDate time.Time       `db:"collection_date" gorm:"column:collection_date;type:date;not null"`
	Notes          string          `db:"notes"           gorm:"column:notes"`
	CreatedAt      time.Time       `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	CreatedBy      *int64          `db:"created_by"      gorm:"column:created_by"`
}

func (CollectionEntity) TableName() string {
	return "collection"
}

type PaymentEntity struct {
	ID          int64           `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	SupplierID  int64           `db:"supplier_id"  gorm:"column:supplier_id;not null;index"`
	Amount      Money           `db:"amount"       gorm:"column:amount;not null"`
	PaymentDate time.Time       `db:"payment_date" gorm:"column:payment_date;type:date;not null"`
	Notes       string          `db:"notes"        gorm:"column:notes"`
	CreatedAt   time.Time       `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	CreatedBy   *int64          `db:"created_by"   gorm:"column:created_by"`
}

func (PaymentEntity) TableName() string {
	return "payment"
}

type UserEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `db:"username"      gorm:"column:username;size:80;not null;uniqueIndex"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;size:120;not null"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (UserEntity) TableName() string {
	return "user"
}

// Entities lists every table model, in dependency order, for AutoMigrate.
func Entities() []any {
	return []any{
		&UserEntity{},
		&CustomerEntity{},
		&SupplierEntity{},
		&SalesInvoiceEntity{},
		&PurchaseInvoiceEntity{},
		&CollectionEntity{},
		&PaymentEntity{},
	}
}

func toSalesInvoiceEntity(m *model.SalesInvoice) *SalesInvoiceEntity {
	if m == nil {
		return nil
	}
	return &SalesInvoiceEntity{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		Amount:        money(m.Amount),
		Description:   m.Description,
		InvoiceDate:   m.InvoiceDate.Time,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toSalesInvoiceModel(e *SalesInvoiceEntity) *model.SalesInvoice {
	if e == nil {
		return nil
	}
	return &model.SalesInvoice{
		ID:            e.ID,
		InvoiceNumber: e.InvoiceNumber,
		CustomerID:    e.CustomerID,
		Amount:        e.Amount.Round(model.AmountScale),
		Description:   e.Description,
		InvoiceDate:   model.NewDate(e.InvoiceDate),
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

func toPurchaseInvoiceEntity(m *model.PurchaseInvoice) *PurchaseInvoiceEntity {
	if m == nil {
		return nil
	}
	return &PurchaseInvoiceEntity{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		SupplierID:    m.SupplierID,
		Amount:        money(m.Amount),
		Description:   m.Description,
		InvoiceDate:   m.InvoiceDate.Time,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toPurchaseInvoiceModel(e *PurchaseInvoiceEntity) *model.PurchaseInvoice {
	if e == nil {
		return nil
	}
	return &model.PurchaseInvoice{
		ID:            e.ID,
		InvoiceNumber: e.InvoiceNumber,
		SupplierID:    e.SupplierID,
		Amount:        e.Amount.Round(model.AmountScale),
		Description:   e.Description,
		InvoiceDate:   model.NewDate(e.InvoiceDate),
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

func toCollectionEntity(m *model.Collection) *CollectionEntity {
	if m == nil {
		return nil
	}
	return &CollectionEntity{
		ID:             m.ID,
		CustomerID:     m.CustomerID,
		Amount:         money(m.Amount),
		CollectionDate: m.CollectionDate.Time,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

func toCollectionModel(e *CollectionEntity) *model.Collection {
	if e == nil {
		return nil
	}
	return &model.Collection{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		Amount:         e.Amount.Round(model.AmountScale),
		CollectionDate: model.NewDate(e.CollectionDate),
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

func toPaymentEntity(m *model.Payment) *PaymentEntity {
	if m == nil {
		return nil
	}
	return &PaymentEntity{
		ID:          m.ID,
		SupplierID:  m.SupplierID,
		Amount:      money(m.Amount),
		PaymentDate: m.PaymentDate.Time,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:          e.ID,
		SupplierID:  e.SupplierID,
		Amount:      e.Amount.Round(model.AmountScale),
		PaymentDate: model.NewDate(e.PaymentDate),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:           e.ID,
		Username:     e.Username,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
	}
}
