// Package paymentstatus реализует HTTP-обработчик статуса платежа.
package paymentstatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Service описывает чтение статуса платежа.
type Service interface {
	Status(ctx context.Context, contextID, paymentID string) (models.Payment, error)
	Wait(ctx context.Context, contextID, paymentID string) (models.Payment, error)
}

// Handler отдаёт статус платежа.
type Handler struct {
	log     *slog.Logger
	service Service
	maxWait time.Duration
}

// New создает новый экземпляр Handler. maxWait ограничивает ожидание с ?wait=true.
func New(log *slog.Logger, service Service, maxWait time.Duration) *Handler {
	return &Handler{
		log:     log,
		service: service,
		maxWait: maxWait,
	}
}

// ServeHTTP godoc
// @Summary Статус платежа
// @Description С wait=true ждёт завершения платежа, но не дольше настроенного предела.
// @Tags Payments
// @Produce json
// @Security ContextToken
// @Param paymentID path string true "Идентификатор платежа"
// @Param wait query bool false "Ждать завершения"
// @Success 200 {object} response.Response "Платёж"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Router /payments/{paymentID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	if !ok {
		return
	}
	paymentID := chi.URLParam(r, "paymentID")

	var (
		payment models.Payment
		err     error
	)
	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), h.maxWait)
		payment, err = h.service.Wait(ctx, contextID, paymentID)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			payment, err = h.service.Status(r.Context(), contextID, paymentID)
		}
	} else {
		payment, err = h.service.Status(r.Context(), contextID, paymentID)
	}
	if err != nil {
		log.Warn("payment status unavailable", slog.String("payment_id", paymentID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(payment))
}
