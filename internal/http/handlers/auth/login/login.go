// Package login реализует HTTP-обработчик входа по телефону или email и PIN.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка полей и делегирование входа сервису. При успешном входе возвращается
// текущий пользователь и приветствие, зависящее от точки входа.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	loginservice "github.com/magabrotheeeer/moment-a/internal/services/login"
)

// Request — структура входных данных для входа.
//
// Обязательность идентификатора и формат PIN проверяет сервис, чтобы вернуть
// пользователю его сообщения.
type Request struct {
	Identifier string `json:"identifier" validate:"max=254"`
	PIN        string `json:"pin" validate:"max=32"`
	EntryPoint string `json:"entryPoint" validate:"omitempty,oneof=enter login"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, contextID, identifier, pin string, entry loginservice.EntryPoint) (loginservice.Result, error)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис входа
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет телефон или email и PIN и открывает сессию в браузерном контексте.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security ContextToken
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	if !ok {
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Login(r.Context(), contextID, req.Identifier, req.PIN, loginservice.EntryPoint(req.EntryPoint))
	if err != nil {
		status := response.RenderError(w, r, err)
		log.Info("login failed", slog.Int("status", status), sl.Err(err))
		return
	}

	log.Info("login success", slog.String("context_id", contextID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    res.User,
		"message": res.Message,
	}))
}
