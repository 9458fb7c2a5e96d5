// Package session реализует HTTP-обработчик чтения текущего пользователя.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Service возвращает текущего вошедшего пользователя или nil.
type Service interface {
	Current(ctx context.Context, contextID string) *models.SessionUser
}

// Handler отдаёт состояние сессии для навигации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Tags Auth
// @Produce json
// @Security ContextToken
// @Success 200 {object} response.Response "loggedIn и user"
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.session"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	if !ok {
		return
	}

	user := h.service.Current(r.Context(), contextID)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"loggedIn": user != nil,
		"user":     user,
	}))
}
