// Package receipt собирает процесс отправки писем-чеков из очереди RabbitMQ.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/moment-a/internal/app/momenta"
	"github.com/magabrotheeeer/moment-a/internal/config"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/lib/smtp"
	"github.com/magabrotheeeer/moment-a/internal/rabbitmq"
	receiptservice "github.com/magabrotheeeer/moment-a/internal/services/receipt"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *receiptservice.Sender
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "receipt.New"
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is required"))
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange, momenta.ReceiptQueues())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:   conn,
		ch:     ch,
		sender: receiptservice.NewSender(transport, logger),
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, momenta.ReceiptQueue, a.sender.HandleMessage, a.logger)
	if err != nil {
		a.logger.Error("failed to start receipts consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("receipt sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
