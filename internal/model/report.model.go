package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OwnerType string

const (
	OwnerCustomer OwnerType = "customer"
	OwnerSupplier OwnerType = "supplier"
)

var OwnerTypes = []OwnerType{OwnerCustomer, OwnerSupplier}

// Totals are aggregated from records and are independent of the cached balance.
type Totals struct {
	Invoices decimal.Decimal `json:"total_invoices"`
	Cash     decimal.Decimal `json:"total_cash"`
}

func (t Totals) Balance() decimal.Decimal {
	return t.Invoices.Sub(t.Cash)
}

type CustomerStatement struct {
	Customer     *Customer       `json:"customer"`
	Invoices     []*SalesInvoice `json:"invoices"`
	Collections  []*Collection   `json:"collections"`
	Totals       Totals          `json:"totals"`
	Computed     decimal.Decimal `json:"computed_balance"`
	BalanceDrift bool            `json:"balance_drift"`
}

type SupplierStatement struct {
	Supplier     *Supplier          `json:"supplier"`
	Invoices     []*PurchaseInvoice `json:"invoices"`
	Payments     []*Payment         `json:"payments"`
	Totals       Totals             `json:"totals"`
	Computed     decimal.Decimal    `json:"computed_balance"`
	BalanceDrift bool               `json:"balance_drift"`
}

// PartyReportRow is one line of the customer or supplier report.
type PartyReportRow struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	TotalInvoices decimal.Decimal `json:"total_invoices"`
	TotalCash     decimal.Decimal `json:"total_cash"`
	Balance       decimal.Decimal `json:"balance"`
	Computed      decimal.Decimal `json:"computed_balance"`
	Drift         bool            `json:"drift"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Dashboard struct {
	TotalCustomers        int64              `json:"total_customers"`
	TotalSuppliers        int64              `json:"total_suppliers"`
	TotalSalesInvoices    int64              `json:"total_sales_invoices"`
	TotalPurchaseInvoices int64              `json:"total_purchase_invoices"`
	RecentSales           []*SalesInvoice    `json:"recent_sales"`
	RecentPurchases       []*PurchaseInvoice `json:"recent_purchases"`
	TotalCustomerBalance  decimal.Decimal    `json:"total_customer_balance"`
	TotalSupplierBalance  decimal.Decimal    `json:"total_supplier_balance"`
}

// Discrepancy is an owner whose cached balance differs from the balance
// recomputed from its records.
type Discrepancy struct {
	Owner    OwnerType       `json:"owner"`
	OwnerID  int64           `json:"owner_id"`
	Name     string          `json:"name"`
	Cached   decimal.Decimal `json:"cached"`
	Computed decimal.Decimal `json:"computed"`
	Drift    decimal.Decimal `json:"drift"`
}
