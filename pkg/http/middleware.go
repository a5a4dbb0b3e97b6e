package xhttp

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

const slowThreshold = 500 * time.Millisecond

const RequestIDKey = "request_id"

var skipPaths = []string{"/health", "/metrics"}

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

type MiddlewareFunc func(next RequestHandler) RequestHandler
type RequestCtx = fasthttp.RequestCtx
type RequestHandler = fasthttp.RequestHandler

func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.TimeoutWithCodeHandler(next, timeout, StatusText(StatusRequestTimeout), StatusRequestTimeout)
	}
}

func CompressMiddleware(level int) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.CompressHandlerBrotliLevel(next, level, level)
	}
}

func RecoverMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				WriteError(ctx, StatusInternalServerError, StatusText(StatusInternalServerError))
				logger.Error("[xhttp] panic recovered", "error", err, "request_id", RequestID(ctx))
			}
		}()
		next(ctx)
	}
}

// RequestIDMiddleware keeps a caller supplied X-Request-ID when it is a safe
// token and generates one otherwise. The id is echoed on the response.
func RequestIDMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		id := string(ctx.Request.Header.Peek("X-Request-ID"))
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		ctx.SetUserValue(RequestIDKey, id)
		ctx.Response.Header.Set("X-Request-ID", id)
		next(ctx)
	}
}

func RequestLoggerMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		if shouldSkip(path) {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		latency := time.Since(start)
		status := ctx.Response.StatusCode()

		fields := []any{
			"status", status,
			"method", string(ctx.Method()),
			"path", path,
			"latency", latency.String(),
			"bytes_in", len(ctx.PostBody()),
			"bytes_out", len(ctx.Response.Body()),
			"ip", ctx.RemoteIP().String(),
			"request_id", RequestID(ctx),
		}

		lg := logger.GetLogger()
		switch {
		case status >= 500:
			lg.Error("http_request", fields...)
		case status >= 400 || latency > slowThreshold:
			lg.Warn("http_request", fields...)
		default:
			lg.Info("http_request", fields...)
		}
	}
}

func shouldSkip(p string) bool {
	for _, sp := range skipPaths {
		if strings.HasSuffix(p, sp) {
			return true
		}
	}
	return false
}

// RequestID returns the id assigned by RequestIDMiddleware, falling back to
// the raw header when the middleware is not installed.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if v, ok := ctx.UserValue(RequestIDKey).(string); ok {
		return v
	}
	return string(ctx.Request.Header.Peek("X-Request-ID"))
}
