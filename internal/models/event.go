package models

import "time"

// Типы событий. Они же используются как routing key в брокере.
const (
	EventSessionChanged      = "session.changed"
	EventSubscriptionChanged = "subscription.changed"
	EventPaymentReceipt      = "payment.receipt"
)

// Event сигнал для слоя интерфейса о том, что состояние изменилось.
type Event struct {
	Type       string    `json:"type"`
	ContextID  string    `json:"contextId"`
	ProfileID  string    `json:"profileId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
