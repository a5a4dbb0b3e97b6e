package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/trade-ledger/internal/model"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
	"github.com/valyala/fasthttp"
)

const SessionCookie = "session"

// Paths reachable without a session.
// APIPrefix is the route group every handler registers under.
const APIPrefix = "/api/v1"

var publicPaths = map[string]bool{
	APIPrefix + "/health":     true,
	APIPrefix + "/auth/login": true,
}

type AuthService interface {
	Login(ctx context.Context, in model.LoginRequest) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type AuthHandler struct {
	svc AuthService
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/me", h.Me)
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req model.LoginRequest
	if !readBody(ctx, &req) {
		return
	}
	sess, err := h.svc.Login(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(SessionCookie)
	c.SetValue(sess.Token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetExpire(sess.ExpiresAt)
	ctx.Response.Header.SetCookie(c)

	xhttp.WriteJSON(ctx, xhttp.StatusOK, sess)
}

func (h *AuthHandler) Logout(ctx *xhttp.RequestCtx) {
	if err := h.svc.Logout(ctx, sessionToken(ctx)); err != nil {
		writeServiceError(ctx, err)
		return
	}
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(SessionCookie)
	c.SetPath("/")
	c.SetExpire(time.Unix(0, 0))
	ctx.Response.Header.SetCookie(c)

	xhttp.WriteJSON(ctx, xhttp.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(ctx *xhttp.RequestCtx) {
	sess, err := h.svc.Authenticate(ctx, sessionToken(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.WriteJSON(ctx, xhttp.StatusOK, map[string]any{
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt,
	})
}

// AuthMiddleware rejects requests without a live session, except for the
// public paths. The session's user id is stored under UserIDKey.
func AuthMiddleware(svc AuthService) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			if isPublic(string(ctx.Path())) {
				next(ctx)
				return
			}
			sess, err := svc.Authenticate(ctx, sessionToken(ctx))
			if err != nil {
				writeServiceError(ctx, err)
				return
			}
			ctx.SetUserValue(UserIDKey, sess.UserID)
			next(ctx)
		}
	}
}

func isPublic(path string) bool {
	return publicPaths[path]
}

// sessionToken prefers the bearer token over the session cookie.
func sessionToken(ctx *xhttp.RequestCtx) string {
	auth := string(ctx.Request.Header.Peek("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return string(ctx.Request.Header.Cookie(SessionCookie))
}
