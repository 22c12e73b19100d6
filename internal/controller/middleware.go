package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/resona/server/pkg/ctxlogger"
	"github.com/resona/server/pkg/rest"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = ctxlogger.AppendCtx(ctx, slog.String("request_id", c.generateTimeBasedId()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

func (c controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"message": "authorization token required"})
			return
		}

		claims, err := c.service.ParseToken(tokenString)
		if err != nil {
			c.logger.DebugContext(r.Context(), "failed to parse token", "error", err)
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"message": "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIdCtxKey, claims.UserId)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", claims.UserId))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
