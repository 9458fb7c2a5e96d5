// Package events публикует сигналы обновления интерфейса и чеки об оплате.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/rabbitmq"
)

// LogPublisher пишет события в лог. Используется, когда брокер не настроен.
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher создаёт LogPublisher.
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish пишет событие в лог и никогда не возвращает ошибку.
func (p *LogPublisher) Publish(_ context.Context, ev models.Event) error {
	p.log.Info("event",
		slog.String("type", ev.Type),
		slog.String("context_id", ev.ContextID),
		slog.String("profile_id", ev.ProfileID),
	)
	return nil
}

// AMQPPublisher публикует события в exchange RabbitMQ, тип события служит routing key.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
}

// NewAMQPPublisher создаёт AMQPPublisher поверх открытого канала.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish публикует событие.
func (p *AMQPPublisher) Publish(_ context.Context, ev models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return rabbitmq.PublishMessage(p.ch, p.exchange, ev.Type, ev)
}
