// Package signup реализует HTTP-обработчики шагов мастера регистрации.
//
// Каждый шаг обслуживает отдельный Handler. Ответ всегда содержит текущее состояние мастера,
// чтобы интерфейс мог показать нужный шаг.
package signup

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
	signupservice "github.com/magabrotheeeer/moment-a/internal/services/signup"
)

// Service описывает интерфейс мастера регистрации.
type Service interface {
	Start(contextID string) signupservice.State
	Cancel(contextID string)
	State(contextID string) signupservice.State
	SubmitIdentity(contextID string, id signupservice.Identity) (signupservice.State, error)
	SubmitCode(contextID, code string) (signupservice.State, error)
	SubmitPIN(ctx context.Context, contextID, pin string) (signupservice.State, error)
	Acknowledge(ctx context.Context, contextID string) error
}

// StateResponse данные ответа шагов мастера.
type StateResponse struct {
	State signupservice.State `json:"state"`
}

type base struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func newBase(log *slog.Logger, service Service) base {
	return base{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// begin готовит логгер и достаёт браузерный контекст.
func (b base) begin(w http.ResponseWriter, r *http.Request, op string) (*slog.Logger, string, bool) {
	log := b.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	contextID, ok := middlewarectx.RequireContextID(w, r, log)
	return log, contextID, ok
}

// decode читает и проверяет тело запроса. При ошибке ответ уже записан.
func (b base) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := b.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return false
	}
	return true
}

func (b base) respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, state signupservice.State, err error) {
	if err != nil {
		status := response.RenderError(w, r, err)
		log.Info("signup step rejected", slog.Int("status", status), slog.String("state", string(state)), sl.Err(err))
		return
	}
	render.JSON(w, r, response.OKWithData(StateResponse{State: state}))
}
