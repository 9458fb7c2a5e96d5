// Package resolve реализует HTTP-обработчик определения профиля страницы.
package resolve

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/response"
	"github.com/magabrotheeeer/moment-a/internal/services/subscription"
)

// Handler определяет идентификатор профиля по атрибуту страницы и её пути.
type Handler struct{}

// New создает новый экземпляр Handler.
func New() *Handler {
	return &Handler{}
}

// ServeHTTP godoc
// @Summary Определение профиля страницы
// @Description Возвращает attr, если он задан, иначе путь без "/" и ".html", иначе "default".
// @Tags Subscriptions
// @Produce json
// @Param attr query string false "Явный идентификатор профиля"
// @Param path query string false "Путь страницы"
// @Success 200 {object} response.Response "Идентификатор профиля"
// @Router /profiles/resolve [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	render.JSON(w, r, response.OKWithData(map[string]any{
		"profileId": subscription.ProfileID(q.Get("attr"), q.Get("path")),
	}))
}
