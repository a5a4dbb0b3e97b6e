package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
)

type HealthService interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{
		svc: svc,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	checks, ok := h.svc.Check(ctx)
	if !ok {
		xhttp.WriteJSON(ctx, xhttp.StatusServiceUnavailable, healthResponse{Status: "unavailable", Checks: checks})
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, healthResponse{Status: "success", Checks: checks})
}
