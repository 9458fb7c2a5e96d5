// Package metrics объявляет метрики Prometheus сервиса Moment-A.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations количество попыток регистрации по результату.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "momenta",
		Name:      "registrations_total",
		Help:      "Account registrations by result.",
	}, []string{"result"})

	// Logins количество попыток входа по точке входа и результату.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "momenta",
		Name:      "logins_total",
		Help:      "Login attempts by entry point and result.",
	}, []string{"entry_point", "result"})

	// Payments количество завершённых платежей по статусу.
	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "momenta",
		Name:      "payments_total",
		Help:      "Finished payments by status.",
	}, []string{"status"})

	// PaymentDuration длительность обработки платежа от создания до завершения.
	PaymentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "momenta",
		Name:      "payment_duration_seconds",
		Help:      "Time from payment initiation to completion.",
		Buckets:   prometheus.DefBuckets,
	})

	// StoreReadFailures чтения хранилища, которые были заменены пустым состоянием.
	StoreReadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "momenta",
		Name:      "store_read_failures_total",
		Help:      "Store reads that degraded to empty state.",
	}, []string{"entry"})
)
