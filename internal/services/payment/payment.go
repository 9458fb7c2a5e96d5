// Package payment оформляет подписку через платёжный шлюз.
//
// Initiate сразу возвращает платёж в статусе pending, списание и запись подписки
// выполняются в фоне. Статус платежа можно опрашивать или дождаться его завершения.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/moment-a/internal/lib/lock"
	"github.com/magabrotheeeer/moment-a/internal/lib/metrics"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/paymentprovider"
)

// Ledger записывает оплаченную подписку.
type Ledger interface {
	Subscribe(ctx context.Context, contextID, profileID string, tierKey int, priceOverride *float64) (models.Subscription, error)
}

// SessionReader возвращает текущего вошедшего пользователя или nil.
type SessionReader interface {
	Current(ctx context.Context, contextID string) *models.SessionUser
}

// Publisher публикует сигналы обновления интерфейса и чеки.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Options параметры обработки платежей.
type Options struct {
	// Timeout ограничивает списание вместе с записью подписки. Ноль отключает ограничение.
	Timeout time.Duration
	// Retention сколько хранить завершённый платёж для опроса статуса.
	Retention time.Duration
}

// SuccessMessage сообщение об успешной оплате уровня.
func SuccessMessage(tier models.Tier) string {
	return fmt.Sprintf("¡Éxito! Ya tienes %d oportunidades según tu suscripción %s.", tier.Opportunities, tier.Name)
}

type entry struct {
	contextID string
	payment   models.Payment
	done      chan struct{}
}

// Checkout проводит платежи и отслеживает их статус.
type Checkout struct {
	gateway paymentprovider.Gateway
	ledger  Ledger
	session SessionReader
	events  Publisher
	log     *slog.Logger
	opts    Options

	locks lock.Keyed

	mu       sync.Mutex
	payments map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now   func() time.Time
	newID func() string
}

// NewCheckout создаёт Checkout. Фоновые платежи живут, пока не вызван Close.
func NewCheckout(gateway paymentprovider.Gateway, ledger Ledger, session SessionReader, events Publisher, opts Options, log *slog.Logger) *Checkout {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checkout{
		gateway:  gateway,
		ledger:   ledger,
		session:  session,
		events:   events,
		log:      log,
		opts:     opts,
		payments: make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Initiate создаёт платёж за уровень tierKey для профиля и запускает его обработку.
// Платежи одного профиля в контексте обрабатываются строго по очереди.
func (c *Checkout) Initiate(ctx context.Context, contextID, profileID string, tierKey int) (models.Payment, error) {
	const op = "payment.Initiate"

	tier, ok := models.LookupTier(tierKey)
	if !ok {
		c.log.Error("payment for unknown tier",
			slog.String("context_id", contextID),
			slog.String("profile_id", profileID),
			slog.Int("tier", tierKey))
		return models.Payment{}, fmt.Errorf("%s: %w", op, models.ErrUnknownTier)
	}
	if err := ctx.Err(); err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	e := &entry{
		contextID: contextID,
		payment: models.Payment{
			ID:        c.newID(),
			ProfileID: profileID,
			Tier:      tier.Key,
			Amount:    tier.Price,
			Status:    models.PaymentPending,
			CreatedAt: c.now().UTC(),
		},
		done: make(chan struct{}),
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return models.Payment{}, fmt.Errorf("%s: checkout is closed", op)
	}
	c.pruneLocked()
	c.payments[e.payment.ID] = e
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Info("payment initiated",
		slog.String("payment_id", e.payment.ID),
		slog.String("context_id", contextID),
		slog.String("profile_id", profileID),
		slog.Int("tier", tier.Key))

	go c.process(e, tier)
	return e.payment, nil
}

// Status возвращает текущее состояние платежа. Платёж виден только своему контексту.
func (c *Checkout) Status(_ context.Context, contextID, paymentID string) (models.Payment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.payments[paymentID]
	if !ok || e.contextID != contextID {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return e.payment, nil
}

// Wait ждёт завершения платежа или отмены ctx.
func (c *Checkout) Wait(ctx context.Context, contextID, paymentID string) (models.Payment, error) {
	c.mu.Lock()
	e, ok := c.payments[paymentID]
	c.mu.Unlock()
	if !ok || e.contextID != contextID {
		return models.Payment{}, models.ErrPaymentNotFound
	}

	select {
	case <-e.done:
	case <-ctx.Done():
		return models.Payment{}, ctx.Err()
	}
	return c.Status(ctx, contextID, paymentID)
}

// Close отменяет незавершённые платежи и ждёт их фоновые обработчики.
func (c *Checkout) Close() {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Checkout) process(e *entry, tier models.Tier) {
	defer c.wg.Done()
	p := e.payment
	log := c.log.With(slog.String("payment_id", p.ID), slog.String("context_id", e.contextID))

	ctx := c.ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.ctx, c.opts.Timeout)
		defer cancel()
	}

	sub, err := c.charge(ctx, e.contextID, p, tier)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("payment timed out", sl.Err(err))
		} else {
			log.Error("payment failed", sl.Err(err))
		}
		c.finish(e, nil, "", err)
		return
	}

	msg := SuccessMessage(tier)
	c.finish(e, &sub, msg, nil)
	log.Info("payment succeeded", slog.String("profile_id", p.ProfileID), slog.Int("tier", sub.Tier))

	// события отправляются после записи подписки, не под блокировкой профиля
	c.publish(e.contextID, p.ProfileID, msg)
}

func (c *Checkout) charge(ctx context.Context, contextID string, p models.Payment, tier models.Tier) (models.Subscription, error) {
	const op = "payment.charge"

	unlock, err := c.locks.Lock(ctx, contextID+"/"+p.ProfileID)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	if _, err := c.gateway.Charge(ctx, paymentprovider.Charge{
		PaymentID: p.ID,
		ProfileID: p.ProfileID,
		Tier:      tier.Key,
		Amount:    tier.Price,
	}); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := c.ledger.Subscribe(ctx, contextID, p.ProfileID, tier.Key, nil)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (c *Checkout) finish(e *entry, sub *models.Subscription, msg string, err error) {
	finished := c.now().UTC()

	c.mu.Lock()
	e.payment.FinishedAt = &finished
	if err != nil {
		e.payment.Status = models.PaymentFailed
		e.payment.Error = err.Error()
	} else {
		e.payment.Status = models.PaymentSucceeded
		e.payment.Subscription = sub
		e.payment.Message = msg
	}
	status := e.payment.Status
	duration := finished.Sub(e.payment.CreatedAt)
	c.mu.Unlock()
	close(e.done)

	metrics.Payments.WithLabelValues(string(status)).Inc()
	metrics.PaymentDuration.Observe(duration.Seconds())
}

func (c *Checkout) publish(contextID, profileID, msg string) {
	ctx := context.WithoutCancel(c.ctx)
	now := c.now().UTC()

	events := []models.Event{{
		Type:       models.EventSubscriptionChanged,
		ContextID:  contextID,
		ProfileID:  profileID,
		OccurredAt: now,
	}}
	if user := c.session.Current(ctx, contextID); user != nil && user.Email != "" {
		events = append(events, models.Event{
			Type:       models.EventPaymentReceipt,
			ContextID:  contextID,
			ProfileID:  profileID,
			Email:      user.Email,
			Message:    msg,
			OccurredAt: now,
		})
	}

	for _, ev := range events {
		if err := c.events.Publish(ctx, ev); err != nil {
			c.log.Warn("failed to publish event",
				slog.String("type", ev.Type),
				slog.String("context_id", contextID),
				sl.Err(err))
		}
	}
}

// pruneLocked удаляет завершённые платежи старше Retention.
func (c *Checkout) pruneLocked() {
	if c.opts.Retention <= 0 {
		return
	}
	cutoff := c.now().Add(-c.opts.Retention)
	for id, e := range c.payments {
		if e.payment.FinishedAt != nil && e.payment.FinishedAt.Before(cutoff) {
			delete(c.payments, id)
		}
	}
}
