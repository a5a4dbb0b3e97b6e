package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/services"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
)

// UserIDKey is the user value holding the authenticated user id.
const UserIDKey = "user_id"

// serviceContext carries the authenticated user into the services layer.
func serviceContext(ctx *xhttp.RequestCtx) context.Context {
	if id, ok := ctx.UserValue(UserIDKey).(int64); ok {
		return services.WithActor(ctx, id)
	}
	return ctx
}

func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		xhttp.WriteJSON(ctx, xhttp.StatusBadRequest, map[string]string{
			"error": ve.Error(),
			"field": ve.Field,
		})
	case errors.Is(err, model.ErrNotFound):
		xhttp.WriteError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		xhttp.WriteError(ctx, xhttp.StatusUnauthorized, err.Error())
	default:
		xhttp.WriteError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}

func pathID(ctx *xhttp.RequestCtx) (int64, bool) {
	id, err := xhttp.PathInt64(ctx, "id")
	if err != nil || id <= 0 {
		xhttp.WriteError(ctx, xhttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func readBody(ctx *xhttp.RequestCtx, dst any) bool {
	if err := xhttp.ReadJSON(ctx, dst); err != nil {
		xhttp.WriteError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// recordFilter reads owner, ordering and limit query args. ownerKey is the
// record specific owner parameter, owner_id is accepted for every record.
func recordFilter(ctx *xhttp.RequestCtx, ownerKey string) (model.RecordFilter, error) {
	var f model.RecordFilter

	v := xhttp.Query(ctx, ownerKey)
	if v == "" {
		v = xhttp.Query(ctx, "owner_id")
	}
	if v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, model.NewValidationError(ownerKey, "must be a positive integer")
		}
		f.OwnerID = id
	}

	switch strings.ToLower(xhttp.Query(ctx, "order_by")) {
	case "", model.OrderByCreatedAt:
		f.OrderBy = model.OrderByCreatedAt
	case model.OrderByDate:
		f.OrderBy = model.OrderByDate
	default:
		return f, model.NewValidationError("order_by", "must be created_at or date")
	}
	f.Asc = strings.EqualFold(xhttp.Query(ctx, "order"), "asc")

	if v := xhttp.Query(ctx, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, model.NewValidationError("limit", "must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}
