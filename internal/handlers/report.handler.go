package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/export"
	"github.com/nimasrn/trade-ledger/internal/model"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
)

type ReportService interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	CustomerReport(ctx context.Context) ([]*model.PartyReportRow, error)
	SupplierReport(ctx context.Context) ([]*model.PartyReportRow, error)
	Reconcile(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error)
	Repair(ctx context.Context, owner model.OwnerType) ([]*model.Discrepancy, error)
}

type ReportHandler struct {
	svc ReportService
	now func() time.Time
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler) {
	e.GET("/reports/dashboard", h.Dashboard)
	e.GET("/reports/customers", h.CustomerReport)
	e.GET("/reports/suppliers", h.SupplierReport)
	e.GET("/reports/customers.xlsx", h.ExportCustomers)
	e.GET("/reports/suppliers.xlsx", h.ExportSuppliers)
	e.GET("/reports/reconcile", h.Reconcile)
	e.POST("/reports/reconcile", h.Repair)
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
		now: time.Now,
	}
}

type reconcileResponse struct {
	Repaired      bool                 `json:"repaired"`
	Discrepancies []*model.Discrepancy `json:"discrepancies"`
}

func (h *ReportHandler) Dashboard(ctx *xhttp.RequestCtx) {
	d, err := h.svc.Dashboard(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, d)
}

func (h *ReportHandler) CustomerReport(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.CustomerReport(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, newList(rows))
}

func (h *ReportHandler) SupplierReport(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.SupplierReport(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, newList(rows))
}

func (h *ReportHandler) ExportCustomers(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.CustomerReport(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	b, err := export.CustomerReport(rows)
	if err != nil {
		xhttp.WriteError(ctx, xhttp.StatusInternalServerError, "failed to build spreadsheet")
		return
	}
	xhttp.WriteAttachment(ctx, export.ContentTypeXLSX, export.Filename("customer_reports", h.now()), b)
}

func (h *ReportHandler) ExportSuppliers(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.SupplierReport(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	b, err := export.SupplierReport(rows)
	if err != nil {
		xhttp.WriteError(ctx, xhttp.StatusInternalServerError, "failed to build spreadsheet")
		return
	}
	xhttp.WriteAttachment(ctx, export.ContentTypeXLSX, export.Filename("supplier_reports", h.now()), b)
}

// Reconcile lists balance drift without changing anything.
func (h *ReportHandler) Reconcile(ctx *xhttp.RequestCtx) {
	owner, ok := ownerParam(ctx)
	if !ok {
		return
	}
	out, err := h.svc.Reconcile(serviceContext(ctx), owner)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, reconcileResponse{Discrepancies: nonNil(out)})
}

// Repair rewrites drifted cached balances from their records.
func (h *ReportHandler) Repair(ctx *xhttp.RequestCtx) {
	owner, ok := ownerParam(ctx)
	if !ok {
		return
	}
	out, err := h.svc.Repair(serviceContext(ctx), owner)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, reconcileResponse{Repaired: true, Discrepancies: nonNil(out)})
}

func ownerParam(ctx *xhttp.RequestCtx) (model.OwnerType, bool) {
	switch o := model.OwnerType(strings.ToLower(xhttp.Query(ctx, "owner"))); o {
	case "", model.OwnerCustomer, model.OwnerSupplier:
		return o, true
	default:
		writeServiceError(ctx, model.NewValidationError("owner", "must be customer or supplier"))
		return "", false
	}
}

func nonNil(d []*model.Discrepancy) []*model.Discrepancy {
	if d == nil {
		return []*model.Discrepancy{}
	}
	return d
}
