// Package session хранит текущего вошедшего пользователя браузерного контекста.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/moment-a/internal/lib/metrics"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/store"
)

// Holder хранит не более одного SessionUser на контекст.
type Holder struct {
	store       store.Store
	displayName string
	log         *slog.Logger
}

// New создаёт Holder. displayName показывается для любого вошедшего пользователя
// и не выводится из его данных.
func New(st store.Store, displayName string, log *slog.Logger) *Holder {
	return &Holder{
		store:       st,
		displayName: displayName,
		log:         log,
	}
}

// Project возвращает проекцию учётной записи, которая хранится как сессия.
func (h *Holder) Project(user models.UserRecord) models.SessionUser {
	return models.SessionUser{
		DisplayName: h.displayName,
		Email:       user.Email,
		Phone:       user.Phone,
	}
}

// SetCurrent устанавливает текущего пользователя. nil завершает сессию и удаляет запись.
func (h *Holder) SetCurrent(ctx context.Context, contextID string, user *models.UserRecord) (*models.SessionUser, error) {
	const op = "session.SetCurrent"
	key := store.Key(contextID, store.KeyCurrentUser)

	if user == nil {
		if err := h.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		h.log.Info("session cleared", slog.String("context_id", contextID))
		return nil, nil
	}

	current := h.Project(*user)
	if err := h.store.Set(ctx, key, current); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.log.Info("session established", slog.String("context_id", contextID))
	return &current, nil
}

// Current возвращает текущего пользователя или nil. Отсутствующая, повреждённая
// или недоступная запись означает отсутствие сессии.
func (h *Holder) Current(ctx context.Context, contextID string) *models.SessionUser {
	var current models.SessionUser
	found, err := h.store.Get(ctx, store.Key(contextID, store.KeyCurrentUser), &current)
	if err != nil {
		metrics.StoreReadFailures.WithLabelValues(store.KeyCurrentUser).Inc()
		h.log.Warn("failed to read session, treating as logged out",
			slog.String("context_id", contextID), sl.Err(err))
		return nil
	}
	if !found {
		return nil
	}
	return &current
}
