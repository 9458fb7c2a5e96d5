// Package paymentcreate реализует HTTP-обработчик оплаты уровня подписки на профиль.
//
// Платёж проводится асинхронно: обработчик сразу возвращает платёж в статусе
// pending, а его завершение отслеживается через paymentstatus.
package paymentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/pathparam"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Request уровень подписки из каталога.
type Request struct {
	Tier int `json:"tier" validate:"required"`
}

// Service описывает запуск платежа.
type Service interface {
	Initiate(ctx context.Context, contextID, profileID string, tierKey int) (models.Payment, error)
}

// Handler обрабатывает HTTP-запросы на оплату.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Оплата подписки
// @Description Запускает платёж за уровень подписки на профиль. Ответ приходит до завершения платежа.
// @Tags Payments
// @Accept json
// @Produce json
// @Security ContextToken
// @Param profileID path string true "Идентификатор профиля"
// @Param request body Request true "Уровень подписки"
// @Success 202 {object} response.Response "Платёж в статусе pending"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Неизвестный уровень"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profiles/{profileID}/payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	if !ok {
		return
	}
	profileID, err := pathparam.Unescaped(r, "profileID")
	if err != nil {
		log.Error("invalid profile id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid profile id"))
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

	payment, err := h.service.Initiate(r.Context(), contextID, profileID, req.Tier)
	if err != nil {
		log.Error("failed to initiate payment", slog.String("profile_id", profileID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.OKWithData(payment))
}
