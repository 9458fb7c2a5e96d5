// Package issue реализует HTTP-обработчик выдачи токена нового браузерного контекста.
//
// Браузерный контекст заменяет локальное хранилище браузера: все учётные записи,
// сессия и подписки хранятся отдельно для каждого контекста.
package issue

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

// TokenGenerator выпускает токен браузерного контекста.
type TokenGenerator interface {
	GenerateToken(contextID string) (string, error)
}

// Handler обрабатывает HTTP-запросы на создание браузерного контекста.
type Handler struct {
	log    *slog.Logger
	tokens TokenGenerator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, tokens TokenGenerator) *Handler {
	return &Handler{
		log:    log,
		tokens: tokens,
	}
}

// ServeHTTP godoc
// @Summary Создание браузерного контекста
// @Description Выдаёт новый идентификатор браузерного контекста и токен для заголовка Authorization.
// @Tags Contexts
// @Produce json
// @Success 201 {object} response.Response "Токен контекста"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contexts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.browsing.issue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID := uuid.NewString()
	token, err := h.tokens.GenerateToken(contextID)
	if err != nil {
		log.Error("failed to generate context token", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("browsing context issued", slog.String("context_id", contextID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"contextId": contextID,
		"token":     token,
	}))
}
