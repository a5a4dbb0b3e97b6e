package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/model"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
)

type LedgerService interface {
	CreateSalesInvoice(ctx context.Context, in model.SalesInvoiceInput) (*model.SalesInvoice, error)
	UpdateSalesInvoice(ctx context.Context, id int64, in model.SalesInvoiceInput) (*model.SalesInvoice, error)
	DeleteSalesInvoice(ctx context.Context, id int64) error
	GetSalesInvoice(ctx context.Context, id int64) (*model.SalesInvoice, error)
	ListSalesInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.SalesInvoice, error)

	CreatePurchaseInvoice(ctx context.Context, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error)
	UpdatePurchaseInvoice(ctx context.Context, id int64, in model.PurchaseInvoiceInput) (*model.PurchaseInvoice, error)
	DeletePurchaseInvoice(ctx context.Context, id int64) error
	GetPurchaseInvoice(ctx context.Context, id int64) (*model.PurchaseInvoice, error)
	ListPurchaseInvoices(ctx context.Context, filter model.RecordFilter) ([]*model.PurchaseInvoice, error)

	CreateCollection(ctx context.Context, in model.CollectionInput) (*model.Collection, error)
	UpdateCollection(ctx context.Context, id int64, in model.CollectionInput) (*model.Collection, error)
	DeleteCollection(ctx context.Context, id int64) error
	GetCollection(ctx context.Context, id int64) (*model.Collection, error)
	ListCollections(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error)

	CreatePayment(ctx context.Context, in model.PaymentInput) (*model.Payment, error)
	UpdatePayment(ctx context.Context, id int64, in model.PaymentInput) (*model.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	GetPayment(ctx context.Context, id int64) (*model.Payment, error)
	ListPayments(ctx context.Context, filter model.RecordFilter) ([]*model.Payment, error)
}

// recordRoutes serves the CRUD endpoints of one record kind. I is the
// request body and R the stored record.
type recordRoutes[I any, R any] struct {
	ownerKey string
	create   func(ctx context.Context, in I) (R, error)
	update   func(ctx context.Context, id int64, in I) (R, error)
	remove   func(ctx context.Context, id int64) error
	get      func(ctx context.Context, id int64) (R, error)
	list     func(ctx context.Context, f model.RecordFilter) ([]R, error)
}

func (rr recordRoutes[I, R]) register(e *router.Group, path string) {
	e.GET(path, rr.List)
	e.POST(path, rr.Create)
	e.GET(path+"/{id}", rr.Get)
	e.PUT(path+"/{id}", rr.Update)
	e.DELETE(path+"/{id}", rr.Delete)
}

func (rr recordRoutes[I, R]) List(ctx *xhttp.RequestCtx) {
	f, err := recordFilter(ctx, rr.ownerKey)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	items, err := rr.list(serviceContext(ctx), f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, newList(items))
}

func (rr recordRoutes[I, R]) Create(ctx *xhttp.RequestCtx) {
	var req I
	if !readBody(ctx, &req) {
		return
	}
	rec, err := rr.create(serviceContext(ctx), req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, rec)
}

func (rr recordRoutes[I, R]) Get(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	rec, err := rr.get(serviceContext(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, rec)
}

func (rr recordRoutes[I, R]) Update(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req I
	if !readBody(ctx, &req) {
		return
	}
	rec, err := rr.update(serviceContext(ctx), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, rec)
}

func (rr recordRoutes[I, R]) Delete(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := rr.remove(serviceContext(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

type RecordHandler struct {
	svc LedgerService
}

func NewRecordHandler(svc LedgerService) *RecordHandler {
	return &RecordHandler{
		svc: svc,
	}
}

func RegisterRecordRoutes(e *router.Group, h *RecordHandler) {
	recordRoutes[model.SalesInvoiceInput, *model.SalesInvoice]{
		ownerKey: "customer_id",
		create:   h.svc.CreateSalesInvoice,
		update:   h.svc.UpdateSalesInvoice,
		remove:   h.svc.DeleteSalesInvoice,
		get:      h.svc.GetSalesInvoice,
		list:     h.svc.ListSalesInvoices,
	}.register(e, "/sales-invoices")

	recordRoutes[model.PurchaseInvoiceInput, *model.PurchaseInvoice]{
		ownerKey: "supplier_id",
		create:   h.svc.CreatePurchaseInvoice,
		update:   h.svc.UpdatePurchaseInvoice,
		remove:   h.svc.DeletePurchaseInvoice,
		get:      h.svc.GetPurchaseInvoice,
		list:     h.svc.ListPurchaseInvoices,
	}.register(e, "/purchase-invoices")

	recordRoutes[model.CollectionInput, *model.Collection]{
		ownerKey: "customer_id",
		create:   h.svc.CreateCollection,
		update:   h.svc.UpdateCollection,
		remove:   h.svc.DeleteCollection,
		get:      h.svc.GetCollection,
		list:     h.svc.ListCollections,
	}.register(e, "/collections")

	recordRoutes[model.PaymentInput, *model.Payment]{
		ownerKey: "supplier_id",
		create:   h.svc.CreatePayment,
		update:   h.svc.UpdatePayment,
		remove:   h.svc.DeletePayment,
		get:      h.svc.GetPayment,
		list:     h.svc.ListPayments,
	}.register(e, "/payments")
}
