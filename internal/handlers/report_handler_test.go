package handlers

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/export"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportRoutes(h *ReportHandler) func(g *router.Group) {
	return func(g *router.Group) { RegisterReportRoutes(g, h) }
}

func TestReportHandler_Dashboard(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("Dashboard", mock.Anything).Return(&model.Dashboard{TotalCustomers: 2, TotalCustomerBalance: decimal.RequireFromString("150")}, nil)

	ctx := setupTestContext("GET", "/api/v1/reports/dashboard", nil)
	serve(reportRoutes(handler), ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var got map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.Equal(t, float64(2), got["total_customers"])
	assert.Equal(t, "150", got["total_customer_balance"])
}

func TestReportHandler_ExportCustomers(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	handler.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	rows := []*model.PartyReportRow{{ID: 1, Name: "Ahmed", Balance: decimal.RequireFromString("150")}}
	svc.On("CustomerReport", mock.Anything).Return(rows, nil)

	ctx := setupTestContext("GET", "/api/v1/reports/customers.xlsx", nil)
	serve(reportRoutes(handler), ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	assert.Equal(t, export.ContentTypeXLSX, string(ctx.Response.Header.ContentType()))
	assert.Contains(t, string(ctx.Response.Header.Peek("Content-Disposition")), "customer_reports_20240301.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(ctx.Response.Body()))
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue(export.CustomerSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", name)
}

func TestReportHandler_SupplierReportError(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("SupplierReport", mock.Anything).Return(nil, model.NewStorageError("supplier report", assert.AnError))

	ctx := setupTestContext("GET", "/api/v1/reports/suppliers", nil)
	serve(reportRoutes(handler), ctx)

	assert.Equal(t, 500, ctx.Response.StatusCode())
}

func TestReportHandler_Reconcile(t *testing.T) {
	t.Run("reports drift", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		out := []*model.Discrepancy{{
			Owner:    model.OwnerCustomer,
			OwnerID:  1,
			Cached:   decimal.RequireFromString("100"),
			Computed: decimal.RequireFromString("150"),
			Drift:    decimal.RequireFromString("-50"),
		}}
		svc.On("Reconcile", mock.Anything, model.OwnerCustomer).Return(out, nil)

		ctx := setupTestContext("GET", "/api/v1/reports/reconcile?owner=customer", nil)
		serve(reportRoutes(handler), ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got reconcileResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.False(t, got.Repaired)
		require.Len(t, got.Discrepancies, 1)
		assert.Equal(t, int64(1), got.Discrepancies[0].OwnerID)
	})

	t.Run("repair every owner", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("Repair", mock.Anything, model.OwnerType("")).Return(nil, nil)

		ctx := setupTestContext("POST", "/api/v1/reports/reconcile", nil)
		serve(reportRoutes(handler), ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"repaired":true,"discrepancies":[]}`, string(ctx.Response.Body()))
		svc.AssertExpectations(t)
	})

	t.Run("unknown owner", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/reports/reconcile?owner=vendor", nil)
		serve(reportRoutes(handler), ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
	})
}
