// Package receipt отправляет письма с подтверждением оплаты подписки.
package receipt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/lib/smtp"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

// Subject тема письма с чеком.
const Subject = "Moment-A: suscripción confirmada"

// Sender отправляет чеки по событиям payment.receipt.
type Sender struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSender создаёт Sender.
func NewSender(transport smtp.TransportInterface, log *slog.Logger) *Sender {
	return &Sender{
		transport: transport,
		log:       log,
	}
}

// HandleMessage обрабатывает сообщение из очереди. События других типов и события
// без email пропускаются без ошибки, чтобы не возвращаться в очередь.
func (s *Sender) HandleMessage(body []byte) error {
	const op = "receipt.HandleMessage"

	var ev models.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if ev.Type != models.EventPaymentReceipt {
		s.log.Debug("skipping event", slog.String("type", ev.Type))
		return nil
	}
	if ev.Email == "" {
		s.log.Warn("receipt without recipient", slog.String("context_id", ev.ContextID))
		return nil
	}

	bodyText := fmt.Sprintf("¡Hola!\n\n%s\n\nPerfil: %s\nFecha: %s\n",
		ev.Message, ev.ProfileID, ev.OccurredAt.Format("2006-01-02 15:04"))
	if err := s.sendEmail([]string{ev.Email}, Subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Sender) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("receipt sent", slog.Any("to", to))
	return nil
}
