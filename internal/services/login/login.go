// Package login реализует вход по телефону или email и PIN.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/moment-a/internal/lib/metrics"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/services/accounts"
)

// EntryPoint точка интерфейса, из которой открыт вход. Влияет только на приветствие.
type EntryPoint string

const (
	EntryEnter EntryPoint = "enter"
	EntryLogin EntryPoint = "login"
)

// Сообщения, которые показываются пользователю.
const (
	MsgMissingFields      = "Please enter your phone/email and 6-digit PIN."
	MsgInvalidCredentials = models.MsgInvalidCredentials
	MsgWelcomeEnter       = "Welcome back! You can now participate in this Moment-A."
	MsgWelcomeLogin       = "Welcome back to Moment-A!"
)

// Authenticator проверяет идентификатор и PIN.
type Authenticator interface {
	Authenticate(ctx context.Context, contextID, identifier, pin string) (models.UserRecord, error)
}

// SessionSetter устанавливает или сбрасывает текущего пользователя.
type SessionSetter interface {
	SetCurrent(ctx context.Context, contextID string, user *models.UserRecord) (*models.SessionUser, error)
}

// Publisher публикует сигналы обновления интерфейса.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Result успешный вход.
type Result struct {
	User    models.SessionUser
	Message string
}

// Service выполняет вход и выход.
type Service struct {
	accounts Authenticator
	session  SessionSetter
	events   Publisher
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service.
func New(accounts Authenticator, session SessionSetter, events Publisher, log *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		session:  session,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Welcome возвращает приветствие для точки входа. Неизвестная точка считается EntryLogin.
func Welcome(entry EntryPoint) string {
	if entry == EntryEnter {
		return MsgWelcomeEnter
	}
	return MsgWelcomeLogin
}

// Login проверяет учётные данные и открывает сессию.
// Идентификатор обрезается по краям, PIN используется как есть.
func (s *Service) Login(ctx context.Context, contextID, identifier, pin string, entry EntryPoint) (Result, error) {
	const op = "login.Login"
	if entry != EntryEnter {
		entry = EntryLogin
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || pin == "" {
		metrics.Logins.WithLabelValues(string(entry), "invalid").Inc()
		return Result{}, models.NewValidationError(MsgMissingFields)
	}
	if !accounts.ValidPIN(pin) {
		metrics.Logins.WithLabelValues(string(entry), "invalid").Inc()
		return Result{}, models.NewValidationError(accounts.MsgInvalidPIN)
	}

	user, err := s.accounts.Authenticate(ctx, contextID, identifier, pin)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues(string(entry), "rejected").Inc()
			s.log.Info("login rejected", slog.String("context_id", contextID))
			return Result{}, models.ErrInvalidCredentials
		}
		metrics.Logins.WithLabelValues(string(entry), "error").Inc()
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.session.SetCurrent(ctx, contextID, &user)
	if err != nil {
		metrics.Logins.WithLabelValues(string(entry), "error").Inc()
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.Logins.WithLabelValues(string(entry), "ok").Inc()
	s.publish(ctx, contextID)
	return Result{User: *current, Message: Welcome(entry)}, nil
}

// Logout завершает сессию. Выход без сессии не является ошибкой.
func (s *Service) Logout(ctx context.Context, contextID string) error {
	const op = "login.Logout"
	if _, err := s.session.SetCurrent(ctx, contextID, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, contextID)
	return nil
}

func (s *Service) publish(ctx context.Context, contextID string) {
	ev := models.Event{
		Type:       models.EventSessionChanged,
		ContextID:  contextID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish session refresh", slog.String("context_id", contextID), sl.Err(err))
	}
}
