package signup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/moment-a/internal/http/response"
	signupservice "github.com/magabrotheeeer/moment-a/internal/services/signup"
)

// StartHandler открывает мастер заново.
type StartHandler struct{ base }

// NewStart создает StartHandler.
func NewStart(log *slog.Logger, service Service) *StartHandler {
	return &StartHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Начать регистрацию
// @Description Открывает мастер регистрации заново, ранее введённые данные отбрасываются.
// @Tags Signup
// @Produce json
// @Security ContextToken
// @Success 200 {object} response.Response "Состояние мастера"
// @Router /signup/start [post]
func (h *StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log, contextID, ok := h.begin(w, r, "handlers.signup.start")
	if !ok {
		return
	}
	h.respond(w, r, log, h.service.Start(contextID), nil)
}

// IdentityRequest данные первого шага. Обязательность полей проверяет сервис.
type IdentityRequest struct {
	NationalID     string `json:"dni" validate:"max=64"`
	Phone          string `json:"phone" validate:"max=64"`
	Email          string `json:"email" validate:"max=254"`
	AcceptTerms    bool   `json:"acceptTerms"`
	AcceptPrivacy  bool   `json:"acceptPrivacy"`
	MarketingOptIn bool   `json:"marketingOptIn"`
}

// IdentityHandler принимает DNI, телефон, email и согласия.
type IdentityHandler struct{ base }

// NewIdentity создает IdentityHandler.
func NewIdentity(log *slog.Logger, service Service) *IdentityHandler {
	return &IdentityHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Шаг 1: данные личности
// @Tags Signup
// @Accept json
// @Produce json
// @Security ContextToken
// @Param request body IdentityRequest true "DNI, телефон, email и согласия"
// @Success 200 {object} response.Response "Состояние мастера"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Шаг недоступен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /signup/identity [post]
func (h *IdentityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log, contextID, ok := h.begin(w, r, "handlers.signup.identity")
	if !ok {
		return
	}
	var req IdentityRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	state, err := h.service.SubmitIdentity(contextID, signupservice.Identity{
		NationalID:     req.NationalID,
		Phone:          req.Phone,
		Email:          req.Email,
		AcceptTerms:    req.AcceptTerms,
		AcceptPrivacy:  req.AcceptPrivacy,
		MarketingOptIn: req.MarketingOptIn,
	})
	h.respond(w, r, log, state, err)
}

// VerifyRequest код подтверждения.
type VerifyRequest struct {
	Code string `json:"code" validate:"max=32"`
}

// VerifyHandler проверяет код подтверждения.
type VerifyHandler struct{ base }

// NewVerify создает VerifyHandler.
func NewVerify(log *slog.Logger, service Service) *VerifyHandler {
	return &VerifyHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Шаг 2: код подтверждения
// @Tags Signup
// @Accept json
// @Produce json
// @Security ContextToken
// @Param request body VerifyRequest true "Код из 6 символов"
// @Success 200 {object} response.Response "Состояние мастера"
// @Failure 409 {object} response.ErrorResponse "Шаг недоступен"
// @Failure 422 {object} response.ErrorResponse "Неверный код"
// @Router /signup/verify [post]
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log, contextID, ok := h.begin(w, r, "handlers.signup.verify")
	if !ok {
		return
	}
	var req VerifyRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	state, err := h.service.SubmitCode(contextID, req.Code)
	h.respond(w, r, log, state, err)
}

// PINRequest PIN новой учётной записи.
type PINRequest struct {
	PIN string `json:"pin" validate:"max=32"`
}

// PINHandler создаёт учётную запись и открывает сессию.
type PINHandler struct{ base }

// NewPIN создает PINHandler.
func NewPIN(log *slog.Logger, service Service) *PINHandler {
	return &PINHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Шаг 3: PIN
// @Description Регистрирует учётную запись и открывает сессию.
// @Tags Signup
// @Accept json
// @Produce json
// @Security ContextToken
// @Param request body PINRequest true "PIN из 6 цифр"
// @Success 200 {object} response.Response "Состояние мастера"
// @Failure 409 {object} response.ErrorResponse "Учётная запись уже существует или шаг недоступен"
// @Failure 422 {object} response.ErrorResponse "Некорректный PIN"
// @Router /signup/pin [post]
func (h *PINHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log, contextID, ok := h.begin(w, r, "handlers.signup.pin")
	if !ok {
		return
	}
	var req PINRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	state, err := h.service.SubmitPIN(r.Context(), contextID, req.PIN)
	if err == nil {
		log.Info("account created", slog.String("context_id", contextID))
	}
	h.respond(w, r, log, state, err)
}

// AckHandler закрывает завершённый мастер.
type AckHandler struct{ base }

// NewAck создает AckHandler.
func NewAck(log *slog.Logger, service Service) *AckHandler {
	return &AckHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Шаг 4: подтверждение
// @Description Закрывает завершённый мастер и отправляет сигнал обновления интерфейса.
// @Tags Signup
// @Produce json
// @Security ContextToken
// @Success 200 {object} response.Response "Состояние мастера"
// @Failure 409 {object} response.ErrorResponse "Шаг недоступен"
// @Router /signup/ack [post]
func (h *AckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log, contextID, ok := h.begin(w, r, "handlers.signup.ack")
	if !ok {
		return
	}
	err := h.service.Acknowledge(r.Context(), contextID)
	h.respond(w, r, log, h.service.State(contextID), err)
}

// CancelHandler закрывает мастер без сохранения.
type CancelHandler struct{ base }

// NewCancel создает CancelHandler.
func NewCancel(log *slog.Logger, service Service) *CancelHandler {
	return &CancelHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Отмена регистрации
// @Tags Signup
// @Security ContextToken
// @Success 204
// @Router /signup [delete]
func (h *CancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, contextID, ok := h.begin(w, r, "handlers.signup.cancel")
	if !ok {
		return
	}
	h.service.Cancel(contextID)
	render.NoContent(w, r)
}

// StateHandler отдаёт текущий шаг мастера.
type StateHandler struct{ base }

// NewState создает StateHandler.
func NewState(log *slog.Logger, service Service) *StateHandler {
	return &StateHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Текущий шаг регистрации
// @Tags Signup
// @Produce json
// @Security ContextToken
// @Success 200 {object} response.Response "Состояние мастера"
// @Router /signup [get]
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, contextID, ok := h.begin(w, r, "handlers.signup.state")
	if !ok {
		return
	}
	render.JSON(w, r, response.OKWithData(StateResponse{State: h.service.State(contextID)}))
}
