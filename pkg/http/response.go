package xhttp

import (
	"encoding/json"
	"strconv"
)

// ReadJSON decodes the request body into dst.
func ReadJSON(ctx *RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func WriteJSON(ctx *RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		WriteError(ctx, StatusInternalServerError, "failed to encode response")
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func WriteError(ctx *RequestCtx, status int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// WriteAttachment sends a downloadable file body.
func WriteAttachment(ctx *RequestCtx, contentType, filename string, body []byte) {
	ctx.Response.Header.Set("Content-Type", contentType)
	ctx.Response.Header.Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	ctx.Response.SetStatusCode(StatusOK)
	ctx.Response.SetBodyRaw(body)
}

// PathInt64 reads a numeric route parameter set by the router.
func PathInt64(ctx *RequestCtx, name string) (int64, error) {
	switch v := ctx.UserValue(name).(type) {
	case string:
		return strconv.ParseInt(v, 10, 64)
	case int64:
		return v, nil
	default:
		return 0, strconv.ErrSyntax
	}
}

func Query(ctx *RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
