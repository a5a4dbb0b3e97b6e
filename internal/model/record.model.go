package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesInvoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    int64           `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	InvoiceDate   Date            `json:"invoice_date"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     *int64          `json:"created_by,omitempty"`
}

type PurchaseInvoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    int64           `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	InvoiceDate   Date            `json:"invoice_date"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     *int64          `json:"created_by,omitempty"`
}

// Collection is cash received from a customer.
type Collection struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customer_id"`
	Amount         decimal.Decimal `json:"amount"`
	CollectionDate Date            `json:"collection_date"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      *int64          `json:"created_by,omitempty"`
}

// Payment is cash paid to a supplier.
type Payment struct {
	ID          int64           `json:"id"`
	SupplierID  int64           `json:"supplier_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate Date            `json:"payment_date"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   *int64          `json:"created_by,omitempty"`
}

type SalesInvoiceInput struct {
	InvoiceNumber string        `json:"invoice_number" validate:"required,max=50"`
	CustomerID    int64         `json:"customer_id" validate:"gt=0"`
	Amount        NumericString `json:"amount" validate:"required,amount"`
	Description   string        `json:"description"`
	InvoiceDate   string        `json:"invoice_date" validate:"required,date"`
}

type PurchaseInvoiceInput struct {
	InvoiceNumber string        `json:"invoice_number" validate:"required,max=50"`
	SupplierID    int64         `json:"supplier_id" validate:"gt=0"`
	Amount        NumericString `json:"amount" validate:"required,amount"`
	Description   string        `json:"description"`
	InvoiceDate   string        `json:"invoice_date" validate:"required,date"`
}

type CollectionInput struct {
	CustomerID     int64         `json:"customer_id" validate:"gt=0"`
	Amount         NumericString `json:"amount" validate:"required,amount"`
	CollectionDate string        `json:"collection_date" validate:"required,date"`
	Notes          string        `json:"notes"`
}

type PaymentInput struct {
	SupplierID  int64         `json:"supplier_id" validate:"gt=0"`
	Amount      NumericString `json:"amount" validate:"required,amount"`
	PaymentDate string        `json:"payment_date" validate:"required,date"`
	Notes       string        `json:"notes"`
}

// RecordFilter narrows a record listing. A zero OwnerID lists every owner.
type RecordFilter struct {
	OwnerID int64
	// OrderBy is one of "created_at" or "date". Defaults to created_at.
	OrderBy string
	Asc     bool
	Limit   int
}

const (
	OrderByCreatedAt = "created_at"
	OrderByDate      = "date"
)
