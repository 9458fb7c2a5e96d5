// Package signup реализует пошаговый мастер регистрации:
// данные личности → код подтверждения → PIN → завершение.
//
// Промежуточные данные живут только в памяти процесса и отбрасываются при
// завершении, отмене или повторном запуске мастера.
package signup

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/services/accounts"
)

// State шаг мастера регистрации.
type State string

const (
	CollectingIdentity       State = "collecting_identity"
	AwaitingVerificationCode State = "awaiting_verification_code"
	AwaitingPinSetup         State = "awaiting_pin_setup"
	Complete                 State = "complete"
)

// Сообщения, которые показываются пользователю.
const (
	MsgMissingIdentity = "Please fill in DNI, phone number, and email."
	MsgMissingConsent  = "You must accept the Terms and Conditions and Privacy Policy."
	MsgCodeLength      = "Please enter the 6-digit code."
	MsgCodeInvalid     = "Invalid code. Please try again."
	MsgDuplicate       = models.MsgDuplicateAccount
)

const codeLength = 6

// FlowTTL время, после которого незаконченный мастер без действий отбрасывается.
const FlowTTL = 30 * time.Minute

// Identity данные первого шага.
type Identity struct {
	NationalID     string
	Phone          string
	Email          string
	AcceptTerms    bool
	AcceptPrivacy  bool
	MarketingOptIn bool
}

// Registrar регистрирует учётную запись.
type Registrar interface {
	Register(ctx context.Context, contextID string, candidate models.SignupCandidate) (models.UserRecord, error)
}

// SessionSetter устанавливает текущего пользователя.
type SessionSetter interface {
	SetCurrent(ctx context.Context, contextID string, user *models.UserRecord) (*models.SessionUser, error)
}

// Publisher публикует сигналы обновления интерфейса.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

type flow struct {
	state    State
	identity *models.SignupCandidate
	touched  time.Time
}

// Service хранит мастера регистрации по браузерным контекстам.
type Service struct {
	mu    sync.Mutex
	flows map[string]*flow

	code     string
	accounts Registrar
	session  SessionSetter
	events   Publisher
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service. code задаёт единственный принимаемый код подтверждения.
func New(code string, accounts Registrar, session SessionSetter, events Publisher, log *slog.Logger) *Service {
	return &Service{
		flows:    make(map[string]*flow),
		code:     code,
		accounts: accounts,
		session:  session,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start запускает мастер заново, отбрасывая ранее введённые данные.
// Мастер на первом шаге не занимает места: запись появляется после SubmitIdentity.
func (s *Service) Start(contextID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, contextID)
	return CollectingIdentity
}

// Cancel закрывает мастер и отбрасывает введённые данные.
func (s *Service) Cancel(contextID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, contextID)
}

// State возвращает текущий шаг. Контекст без мастера находится на первом шаге.
func (s *Service) State(contextID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(s.flowLocked(contextID))
}

// SubmitIdentity обрабатывает первый шаг. Поля обрезаются по краям.
func (s *Service) SubmitIdentity(contextID string, id Identity) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f := s.flowLocked(contextID); f != nil {
		return f.state, models.ErrStepNotAvailable
	}

	dni := strings.TrimSpace(id.NationalID)
	phone := strings.TrimSpace(id.Phone)
	email := strings.TrimSpace(id.Email)
	if dni == "" || phone == "" || email == "" {
		return CollectingIdentity, models.NewValidationError(MsgMissingIdentity)
	}
	if !id.AcceptTerms || !id.AcceptPrivacy {
		return CollectingIdentity, models.NewValidationError(MsgMissingConsent)
	}

	now := s.now()
	s.pruneLocked(now)
	s.flows[contextID] = &flow{
		state: AwaitingVerificationCode,
		identity: &models.SignupCandidate{
			NationalID:     dni,
			Phone:          phone,
			Email:          email,
			MarketingOptIn: id.MarketingOptIn,
		},
		touched: now,
	}
	return AwaitingVerificationCode, nil
}

// SubmitCode обрабатывает второй шаг: код из 6 символов, равный настроенному.
func (s *Service) SubmitCode(contextID, code string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.flowLocked(contextID)
	if f == nil || f.state != AwaitingVerificationCode {
		return s.stateLocked(f), models.ErrStepNotAvailable
	}
	f.touched = s.now()

	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) != codeLength {
		return f.state, models.NewValidationError(MsgCodeLength)
	}
	if code != s.code {
		return f.state, models.NewValidationError(MsgCodeInvalid)
	}

	f.state = AwaitingPinSetup
	return f.state, nil
}

// SubmitPIN обрабатывает третий шаг: регистрирует учётную запись и открывает сессию.
// При конфликте учётных записей возвращается models.ErrDuplicateAccount, мастер остаётся на этом шаге.
func (s *Service) SubmitPIN(ctx context.Context, contextID, pin string) (State, error) {
	s.mu.Lock()
	f := s.flowLocked(contextID)
	if f == nil || f.state != AwaitingPinSetup {
		state := s.stateLocked(f)
		s.mu.Unlock()
		return state, models.ErrStepNotAvailable
	}
	f.touched = s.now()
	candidate := *f.identity
	s.mu.Unlock()

	pin = strings.TrimSpace(pin)
	if !accounts.ValidPIN(pin) {
		return AwaitingPinSetup, models.NewValidationError(accounts.MsgInvalidPIN)
	}
	candidate.PIN = pin

	user, err := s.accounts.Register(ctx, contextID, candidate)
	if err != nil {
		return AwaitingPinSetup, err
	}

	if _, err := s.session.SetCurrent(ctx, contextID, &user); err != nil {
		return AwaitingPinSetup, err
	}

	s.mu.Lock()
	// мастер могли отменить или перезапустить, пока шла регистрация
	if current, ok := s.flows[contextID]; ok && current == f {
		f.state = Complete
		f.identity = nil
		f.touched = s.now()
	}
	s.mu.Unlock()

	s.publishSessionChanged(ctx, contextID)
	return Complete, nil
}

// Acknowledge закрывает завершённый мастер и отправляет сигнал обновления интерфейса.
func (s *Service) Acknowledge(ctx context.Context, contextID string) error {
	s.mu.Lock()
	f := s.flowLocked(contextID)
	if f == nil || f.state != Complete {
		s.mu.Unlock()
		return models.ErrStepNotAvailable
	}
	delete(s.flows, contextID)
	s.mu.Unlock()

	s.publishSessionChanged(ctx, contextID)
	return nil
}

func (s *Service) publishSessionChanged(ctx context.Context, contextID string) {
	ev := models.Event{
		Type:       models.EventSessionChanged,
		ContextID:  contextID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish session refresh", slog.String("context_id", contextID), sl.Err(err))
	}
}

// flowLocked возвращает мастер контекста или nil, если его нет или он простаивал дольше FlowTTL.
func (s *Service) flowLocked(contextID string) *flow {
	f, ok := s.flows[contextID]
	if !ok {
		return nil
	}
	if s.now().Sub(f.touched) > FlowTTL {
		delete(s.flows, contextID)
		return nil
	}
	return f
}

func (s *Service) stateLocked(f *flow) State {
	if f == nil {
		return CollectingIdentity
	}
	return f.state
}

// pruneLocked отбрасывает мастера, простаивающие дольше FlowTTL.
func (s *Service) pruneLocked(now time.Time) {
	for id, f := range s.flows {
		if now.Sub(f.touched) > FlowTTL {
			delete(s.flows, id)
		}
	}
}
