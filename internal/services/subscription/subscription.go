// Package subscription ведёт подписки браузерного контекста на профили инфлюенсеров.
//
// Все подписки контекста хранятся одной записью profileID → Subscription.
// Оформление новой подписки на профиль заменяет предыдущую.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/moment-a/internal/lib/lock"
	"github.com/magabrotheeeer/moment-a/internal/lib/metrics"
	"github.com/magabrotheeeer/moment-a/internal/lib/month"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/store"
)

// DefaultProfileID профиль, если страница не указала свой и путь пуст.
const DefaultProfileID = "default"

// SessionReader возвращает текущего вошедшего пользователя или nil.
type SessionReader interface {
	Current(ctx context.Context, contextID string) *models.SessionUser
}

// Ledger реестр подписок.
type Ledger struct {
	store   store.Store
	session SessionReader
	locks   lock.Keyed
	log     *slog.Logger
	now     func() time.Time
}

// NewLedger создаёт реестр подписок.
func NewLedger(st store.Store, session SessionReader, log *slog.Logger) *Ledger {
	return &Ledger{
		store:   st,
		session: session,
		log:     log,
		now:     time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// ProfileID определяет профиль страницы: явный атрибут, иначе путь без ведущего "/"
// и суффикса ".html", иначе DefaultProfileID.
func ProfileID(attr, path string) string {
	if attr != "" {
		return attr
	}
	id := strings.TrimPrefix(path, "/")
	id = strings.TrimSuffix(id, ".html")
	if id == "" {
		return DefaultProfileID
	}
	return id
}

// Subscribe оформляет подписку уровня tierKey на профиль, заменяя предыдущую.
// priceOverride, если задан, заменяет цену из каталога.
func (l *Ledger) Subscribe(ctx context.Context, contextID, profileID string, tierKey int, priceOverride *float64) (models.Subscription, error) {
	const op = "subscription.Subscribe"

	tier, ok := models.LookupTier(tierKey)
	if !ok {
		l.log.Error("unknown tier requested",
			slog.String("context_id", contextID),
			slog.String("profile_id", profileID),
			slog.Int("tier", tierKey))
		return models.Subscription{}, fmt.Errorf("%s: %w", op, models.ErrUnknownTier)
	}

	sub := models.Subscription{
		Tier:          tier.Key,
		Opportunities: tier.Opportunities,
		Price:         tier.Price,
		EndMonth:      month.EndMonth(l.now()),
	}
	if priceOverride != nil {
		sub.Price = *priceOverride
	}

	unlock, err := l.locks.Lock(ctx, contextID)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	subs, err := l.subscriptionsForWrite(ctx, contextID)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = make(map[string]models.Subscription)
	}
	subs[profileID] = sub
	if err := l.store.Set(ctx, store.Key(contextID, store.KeySubscriptions), subs); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("subscription saved",
		slog.String("context_id", contextID),
		slog.String("profile_id", profileID),
		slog.Int("tier", sub.Tier))
	return sub, nil
}

// Active возвращает подписку на профиль или nil.
func (l *Ledger) Active(ctx context.Context, contextID, profileID string) *models.Subscription {
	sub, ok := l.subscriptions(ctx, contextID)[profileID]
	if !ok {
		return nil
	}
	return &sub
}

// View состояние бейджа и баннера подписчика: видимы только при активной сессии
// и подписке с ненулевым числом возможностей.
func (l *Ledger) View(ctx context.Context, contextID, profileID string) models.SubscriberView {
	if l.session.Current(ctx, contextID) == nil {
		return models.SubscriberView{}
	}
	sub := l.Active(ctx, contextID, profileID)
	if sub == nil || sub.Opportunities <= 0 {
		return models.SubscriberView{}
	}
	return models.SubscriberView{Visible: true, Opportunities: sub.Opportunities}
}

func (l *Ledger) subscriptions(ctx context.Context, contextID string) map[string]models.Subscription {
	var subs map[string]models.Subscription
	found, err := l.store.Get(ctx, store.Key(contextID, store.KeySubscriptions), &subs)
	if err != nil {
		metrics.StoreReadFailures.WithLabelValues(store.KeySubscriptions).Inc()
		l.log.Warn("failed to read subscriptions, treating as empty",
			slog.String("context_id", contextID), sl.Err(err))
		return nil
	}
	if !found {
		return nil
	}
	return subs
}

// subscriptionsForWrite читает подписки перед перезаписью. Пустыми считаются только
// отсутствующие или повреждённые данные, ошибка хранилища возвращается.
func (l *Ledger) subscriptionsForWrite(ctx context.Context, contextID string) (map[string]models.Subscription, error) {
	var subs map[string]models.Subscription
	found, err := l.store.Get(ctx, store.Key(contextID, store.KeySubscriptions), &subs)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		metrics.StoreReadFailures.WithLabelValues(store.KeySubscriptions).Inc()
		l.log.Warn("corrupt subscriptions overwritten",
			slog.String("context_id", contextID), sl.Err(err))
		return nil, nil
	case err != nil:
		metrics.StoreReadFailures.WithLabelValues(store.KeySubscriptions).Inc()
		return nil, err
	case !found:
		return nil, nil
	}
	return subs, nil
}
