package models

import "time"

// PaymentStatus статус платежа.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment платёж за уровень подписки на профиль.
type Payment struct {
	ID           string        `json:"id"`
	ProfileID    string        `json:"profileId"`
	Tier         int           `json:"tier"`
	Amount       float64       `json:"amount"`
	Status       PaymentStatus `json:"status"`
	Message      string        `json:"message,omitempty"`
	Error        string        `json:"error,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	FinishedAt   *time.Time    `json:"finishedAt,omitempty"`
}

// Done сообщает, завершён ли платёж.
func (p Payment) Done() bool {
	return p.Status != PaymentPending
}
