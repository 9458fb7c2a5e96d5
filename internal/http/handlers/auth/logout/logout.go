// Package logout реализует HTTP-обработчик выхода.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

// Service описывает интерфейс завершения сессии.
type Service interface {
	Logout(ctx context.Context, contextID string) error
}

// Handler обрабатывает HTTP-запросы на выход.
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
// @Summary Выход
// @Tags Auth
// @Produce json
// @Security ContextToken
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), contextID); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"loggedIn": false}))
}
