// Package subscription реализует HTTP-обработчик чтения подписки на профиль.
package subscription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/http/pathparam"
	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Service описывает чтение подписки и состояния интерфейса подписчика.
type Service interface {
	Active(ctx context.Context, contextID, profileID string) *models.Subscription
	View(ctx context.Context, contextID, profileID string) models.SubscriberView
}

// Handler отдаёт подписку на профиль.
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
// @Summary Подписка на профиль
// @Description Возвращает активную подписку и видимость бейджа и баннера подписчика.
// @Tags Subscriptions
// @Produce json
// @Security ContextToken
// @Param profileID path string true "Идентификатор профиля"
// @Success 200 {object} response.Response "Подписка и состояние интерфейса"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор профиля"
// @Router /profiles/{profileID}/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.subscription"
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

	render.JSON(w, r, response.OKWithData(map[string]any{
		"profileId":    profileID,
		"subscription": h.service.Active(r.Context(), contextID, profileID),
		"view":         h.service.View(r.Context(), contextID, profileID),
	}))
}
