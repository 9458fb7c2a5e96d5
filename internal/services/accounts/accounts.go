// Package accounts реализует справочник учётных записей браузерного контекста:
// регистрацию, поиск по телефону или email и проверку PIN.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/moment-a/internal/lib/lock"
	"github.com/magabrotheeeer/moment-a/internal/lib/metrics"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/store"
)

// MsgInvalidPIN сообщение о некорректном PIN.
const MsgInvalidPIN = "Please enter a valid 6-digit PIN."

var pinPattern = regexp.MustCompile(`^\d{6}$`)

// ValidPIN проверяет, что PIN состоит ровно из 6 цифр.
func ValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// Directory справочник учётных записей. Весь справочник контекста хранится одной записью
// и перезаписывается целиком при каждой регистрации.
type Directory struct {
	store store.Store
	locks lock.Keyed
	log   *slog.Logger
}

// NewDirectory создаёт справочник поверх хранилища.
func NewDirectory(st store.Store, log *slog.Logger) *Directory {
	return &Directory{
		store: st,
		log:   log,
	}
}

// Register добавляет учётную запись. Возвращает models.ErrDuplicateAccount,
// если email (без учёта регистра) или телефон уже заняты.
func (d *Directory) Register(ctx context.Context, contextID string, candidate models.SignupCandidate) (models.UserRecord, error) {
	const op = "accounts.Register"

	if !ValidPIN(candidate.PIN) {
		return models.UserRecord{}, models.NewValidationError(MsgInvalidPIN)
	}

	unlock, err := d.locks.Lock(ctx, contextID)
	if err != nil {
		return models.UserRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	users, err := d.usersForWrite(ctx, contextID)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.UserRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	email := strings.ToLower(candidate.Email)
	for _, u := range users {
		if (u.Email != "" && strings.ToLower(u.Email) == email) || u.Phone == candidate.Phone {
			metrics.Registrations.WithLabelValues("duplicate").Inc()
			return models.UserRecord{}, models.ErrDuplicateAccount
		}
	}

	record := candidate.Record()
	users = append(users, record)
	if err := d.store.Set(ctx, store.Key(contextID, store.KeyUsers), users); err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.UserRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.Registrations.WithLabelValues("ok").Inc()
	d.log.Info("account registered", slog.String("context_id", contextID), slog.Int("accounts", len(users)))
	return record, nil
}

// FindByIdentifier ищет учётную запись по email (без учёта регистра) или телефону (точное совпадение).
// Пробелы по краям идентификатора отбрасываются. Возвращает nil, если запись не найдена.
func (d *Directory) FindByIdentifier(ctx context.Context, contextID, identifier string) *models.UserRecord {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}
	lowered := strings.ToLower(trimmed)
	for _, u := range d.users(ctx, contextID) {
		if (u.Email != "" && strings.ToLower(u.Email) == lowered) || u.Phone == trimmed {
			found := u
			return &found
		}
	}
	return nil
}

// Authenticate проверяет идентификатор и PIN. Неизвестный идентификатор и неверный PIN
// неразличимы для вызывающего: оба возвращают models.ErrInvalidCredentials.
func (d *Directory) Authenticate(ctx context.Context, contextID, identifier, pin string) (models.UserRecord, error) {
	user := d.FindByIdentifier(ctx, contextID, identifier)
	if user == nil || user.PIN != pin {
		return models.UserRecord{}, models.ErrInvalidCredentials
	}
	return *user, nil
}

// users читает справочник. Отсутствующая, повреждённая или недоступная запись
// считается пустым справочником; причина пишется в лог.
func (d *Directory) users(ctx context.Context, contextID string) []models.UserRecord {
	var users []models.UserRecord
	found, err := d.store.Get(ctx, store.Key(contextID, store.KeyUsers), &users)
	if err != nil {
		metrics.StoreReadFailures.WithLabelValues(store.KeyUsers).Inc()
		d.log.Warn("failed to read accounts, treating as empty",
			slog.String("context_id", contextID), sl.Err(err))
		return nil
	}
	if !found {
		return nil
	}
	return users
}

// usersForWrite читает справочник перед перезаписью. Пустым считается только
// отсутствующий или повреждённый справочник, ошибка хранилища возвращается.
func (d *Directory) usersForWrite(ctx context.Context, contextID string) ([]models.UserRecord, error) {
	var users []models.UserRecord
	found, err := d.store.Get(ctx, store.Key(contextID, store.KeyUsers), &users)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		metrics.StoreReadFailures.WithLabelValues(store.KeyUsers).Inc()
		d.log.Warn("corrupt accounts overwritten",
			slog.String("context_id", contextID), sl.Err(err))
		return nil, nil
	case err != nil:
		metrics.StoreReadFailures.WithLabelValues(store.KeyUsers).Inc()
		return nil, err
	case !found:
		return nil, nil
	}
	return users, nil
}
