// Package list реализует HTTP-обработчик каталога уровней подписки.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Handler отдаёт каталог уровней.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Каталог уровней подписки
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response "Уровни подписки"
// @Router /tiers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(models.Tiers()))
}
