// Package middlewarectx содержит HTTP middleware для проверки токена браузерного
// контекста и ограничения частоты запросов.
//
// ContextMiddleware проверяет токен в заголовке Authorization и в случае успеха
// добавляет идентификатор браузерного контекста в контекст запроса.
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/jwt"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ContextID ключ идентификатора браузерного контекста.
const ContextID Key = "context_id"

// TokenParser проверяет токен браузерного контекста.
type TokenParser interface {
	ParseToken(token string) (*jwt.ContextClaims, error)
}

// WithContextID кладёт идентификатор браузерного контекста в ctx.
func WithContextID(ctx context.Context, contextID string) context.Context {
	return context.WithValue(ctx, ContextID, contextID)
}

// ContextIDFrom возвращает идентификатор браузерного контекста запроса.
func ContextIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextID).(string)
	return id, ok && id != ""
}

// ContextMiddleware возвращает HTTP middleware, который проверяет токен браузерного
// контекста в заголовке Authorization.
func ContextMiddleware(tokens TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ContextMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			claims, err := tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired context token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContextID(r.Context(), claims.ContextID)))
		})
	}
}

// RequireContextID возвращает идентификатор браузерного контекста запроса.
// Если его нет, пишет 401 и возвращает false.
func RequireContextID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	id, ok := ContextIDFrom(r.Context())
	if !ok {
		log.Error("browsing context missing in request")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("browsing context missing"))
		return "", false
	}
	return id, true
}
