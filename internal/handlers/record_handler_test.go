package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recordRoutesFor(h *RecordHandler) func(g *router.Group) {
	return func(g *router.Group) { RegisterRecordRoutes(g, h) }
}

func TestRecordHandler_CreateSalesInvoice(t *testing.T) {
	t.Run("created with the caller as creator", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewRecordHandler(svc)

		in := model.SalesInvoiceInput{
			InvoiceNumber: "INV-001",
			CustomerID:    1,
			Amount:        "500",
			InvoiceDate:   "2024-01-15",
		}
		uid := int64(2)
		inv := &model.SalesInvoice{
			ID:            10,
			InvoiceNumber: "INV-001",
			CustomerID:    1,
			Amount:        decimal.RequireFromString("500"),
			InvoiceDate:   model.NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
			CreatedBy:     &uid,
		}
		svc.On("CreateSalesInvoice", withActor(2), in).Return(inv, nil)

		ctx := setupTestContext("POST", "/api/v1/sales-invoices",
			[]byte(`{"invoice_number":"INV-001","customer_id":1,"amount":500,"invoice_date":"2024-01-15"}`))
		ctx.SetUserValue(UserIDKey, int64(2))
		serve(recordRoutesFor(handler), ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		var got map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, "2024-01-15", got["invoice_date"])
		assert.Equal(t, "500", got["amount"])

		svc.AssertExpectations(t)
	})

	t.Run("unknown customer is a validation error", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewRecordHandler(svc)
		svc.On("CreateSalesInvoice", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError("customer_id", "does not reference an existing customer"))

		ctx := setupTestContext("POST", "/api/v1/sales-invoices",
			[]byte(`{"invoice_number":"INV-002","customer_id":99,"amount":"10","invoice_date":"2024-01-15"}`))
		serve(recordRoutesFor(handler), ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestRecordHandler_ListCollections(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewRecordHandler(svc)

	rows := []*model.Collection{{ID: 1, CustomerID: 3, Amount: decimal.RequireFromString("200")}}
	svc.On("ListCollections", mock.Anything, model.RecordFilter{OwnerID: 3, OrderBy: model.OrderByCreatedAt}).Return(rows, nil)

	ctx := setupTestContext("GET", "/api/v1/collections?customer_id=3", nil)
	serve(recordRoutesFor(handler), ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var got struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, float64(3), got.Items[0]["customer_id"])

	svc.AssertExpectations(t)
}

func TestRecordHandler_ListRejectsBadFilter(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewRecordHandler(svc)

	ctx := setupTestContext("GET", "/api/v1/payments?supplier_id=x", nil)
	serve(recordRoutesFor(handler), ctx)

	assert.Equal(t, 400, ctx.Response.StatusCode())
	svc.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything)
}

func TestRecordHandler_UpdatePurchaseInvoice(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewRecordHandler(svc)

	in := model.PurchaseInvoiceInput{InvoiceNumber: "PO-1", SupplierID: 4, Amount: "800.50", InvoiceDate: "2024-02-01"}
	svc.On("UpdatePurchaseInvoice", mock.Anything, int64(7), in).
		Return(&model.PurchaseInvoice{ID: 7, SupplierID: 4, Amount: decimal.RequireFromString("800.5")}, nil)

	ctx := setupTestContext("PUT", "/api/v1/purchase-invoices/7",
		[]byte(`{"invoice_number":"PO-1","supplier_id":4,"amount":"800.50","invoice_date":"2024-02-01"}`))
	serve(recordRoutesFor(handler), ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestRecordHandler_DeletePayment(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewRecordHandler(svc)
		svc.On("DeletePayment", mock.Anything, int64(5)).Return(nil)

		ctx := setupTestContext("DELETE", "/api/v1/payments/5", nil)
		serve(recordRoutesFor(handler), ctx)

		assert.Equal(t, 204, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewRecordHandler(svc)
		svc.On("DeletePayment", mock.Anything, int64(5)).Return(model.NewStorageError("delete payment", assert.AnError))

		ctx := setupTestContext("DELETE", "/api/v1/payments/5", nil)
		serve(recordRoutesFor(handler), ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}

func TestRecordHandler_GetMissing(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewRecordHandler(svc)
	svc.On("GetCollection", mock.Anything, int64(8)).Return(nil, model.NewNotFoundError("collection", 8))

	ctx := setupTestContext("GET", "/api/v1/collections/8", nil)
	serve(recordRoutesFor(handler), ctx)

	assert.Equal(t, 404, ctx.Response.StatusCode())
}
