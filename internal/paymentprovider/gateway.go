// Package paymentprovider описывает платёжный шлюз и его симуляцию.
package paymentprovider

import (
	"context"
	"time"
)

// StatusSucceeded статус успешного списания.
const StatusSucceeded = "succeeded"

// Charge запрос на списание.
type Charge struct {
	PaymentID string
	ProfileID string
	Tier      int
	Amount    float64
}

// Result ответ шлюза.
type Result struct {
	PaymentID   string
	Status      string
	ProcessedAt time.Time
}

// Gateway платёжный шлюз.
type Gateway interface {
	Charge(ctx context.Context, charge Charge) (Result, error)
}

// Simulated шлюз, который отвечает успехом после фиксированной задержки.
type Simulated struct {
	latency time.Duration
	now     func() time.Time
}

var _ Gateway = (*Simulated)(nil)

// NewSimulated создаёт симулированный шлюз с задержкой latency.
func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{latency: latency, now: time.Now}
}

// Charge ждёт latency и возвращает успех. Отмена ctx прерывает ожидание.
func (s *Simulated) Charge(ctx context.Context, charge Charge) (Result, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return Result{
		PaymentID:   charge.PaymentID,
		Status:      StatusSucceeded,
		ProcessedAt: s.now().UTC(),
	}, nil
}
