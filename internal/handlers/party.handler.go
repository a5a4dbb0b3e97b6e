package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/model"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
)

type PartyService interface {
	CreateCustomer(ctx context.Context, in model.PartyInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in model.PartyInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)

	CreateSupplier(ctx context.Context, in model.PartyInput) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, in model.PartyInput) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	GetSupplier(ctx context.Context, id int64) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*model.Supplier, error)
}

type StatementService interface {
	CustomerStatement(ctx context.Context, id int64) (*model.CustomerStatement, error)
	SupplierStatement(ctx context.Context, id int64) (*model.SupplierStatement, error)
}

type PartyHandler struct {
	svc        PartyService
	statements StatementService
}

func RegisterPartyRoutes(e *router.Group, h *PartyHandler) {
	e.GET("/customers", h.ListCustomers)
	e.POST("/customers", h.CreateCustomer)
	e.GET("/customers/{id}", h.GetCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.DELETE("/customers/{id}", h.DeleteCustomer)
	e.GET("/customers/{id}/statement", h.CustomerStatement)

	e.GET("/suppliers", h.ListSuppliers)
	e.POST("/suppliers", h.CreateSupplier)
	e.GET("/suppliers/{id}", h.GetSupplier)
	e.PUT("/suppliers/{id}", h.UpdateSupplier)
	e.DELETE("/suppliers/{id}", h.DeleteSupplier)
	e.GET("/suppliers/{id}/statement", h.SupplierStatement)
}

func NewPartyHandler(svc PartyService, statements StatementService) *PartyHandler {
	return &PartyHandler{
		svc:        svc,
		statements: statements,
	}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: len(items)}
}

/* -------------------------------- Customers --------------------------------- */

func (h *PartyHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListCustomers(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, newList(items))
}

func (h *PartyHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req model.PartyInput
	if !readBody(ctx, &req) {
		return
	}
	c, err := h.svc.CreateCustomer(serviceContext(ctx), req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, c)
}

func (h *PartyHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	c, err := h.svc.GetCustomer(serviceContext(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, c)
}

func (h *PartyHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req model.PartyInput
	if !readBody(ctx, &req) {
		return
	}
	c, err := h.svc.UpdateCustomer(serviceContext(ctx), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, c)
}

func (h *PartyHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(serviceContext(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *PartyHandler) CustomerStatement(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	st, err := h.statements.CustomerStatement(serviceContext(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, st)
}

/* -------------------------------- Suppliers --------------------------------- */

func (h *PartyHandler) ListSuppliers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListSuppliers(serviceContext(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, newList(items))
}

func (h *PartyHandler) CreateSupplier(ctx *xhttp.RequestCtx) {
	var req model.PartyInput
	if !readBody(ctx, &req) {
		return
	}
	s, err := h.svc.CreateSupplier(serviceContext(ctx), req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusCreated, s)
}

func (h *PartyHandler) GetSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	s, err := h.svc.GetSupplier(serviceContext(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, s)
}

func (h *PartyHandler) UpdateSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req model.PartyInput
	if !readBody(ctx, &req) {
		return
	}
	s, err := h.svc.UpdateSupplier(serviceContext(ctx), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, s)
}

func (h *PartyHandler) DeleteSupplier(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplier(serviceContext(ctx), id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *PartyHandler) SupplierStatement(ctx *xhttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	st, err := h.statements.SupplierStatement(serviceContext(ctx), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, st)
}
