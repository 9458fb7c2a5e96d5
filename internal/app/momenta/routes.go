// Package momenta собирает HTTP-приложение Moment-A.
package momenta

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/moment-a/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/browsing/issue"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/health"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/payment/paymentstatus"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/profile/resolve"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/profile/subscription"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/signup"
	"github.com/magabrotheeeer/moment-a/internal/http/handlers/tiers/list"
	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/contexts", issue.New(logger, s.Tokens).ServeHTTP)
		r.Get("/tiers", list.New(logger).ServeHTTP)
		r.Get("/profiles/resolve", resolve.New().ServeHTTP)
		r.Get("/health", health.New(logger, s.Pinger).ServeHTTP)

		// Группа с токеном браузерного контекста
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.ContextMiddleware(s.Tokens, logger))

			r.Route("/signup", func(r chi.Router) {
				r.Get("/", signup.NewState(logger, s.Signup).ServeHTTP)
				r.Delete("/", signup.NewCancel(logger, s.Signup).ServeHTTP)
				r.Post("/start", signup.NewStart(logger, s.Signup).ServeHTTP)
				r.Post("/identity", signup.NewIdentity(logger, s.Signup).ServeHTTP)
				r.Post("/verify", signup.NewVerify(logger, s.Signup).ServeHTTP)
				r.Post("/pin", signup.NewPIN(logger, s.Signup).ServeHTTP)
				r.Post("/ack", signup.NewAck(logger, s.Signup).ServeHTTP)
			})

			r.With(middlewarectx.RateLimitMiddleware(s.LoginLimiter, logger)).
				Post("/login", login.New(logger, s.Login).ServeHTTP)
			r.Post("/logout", logout.New(logger, s.Login).ServeHTTP)
			r.Get("/session", session.New(logger, s.Sessions).ServeHTTP)

			r.Get("/profiles/{profileID}/subscription", subscription.New(logger, s.Ledger).ServeHTTP)
			r.Post("/profiles/{profileID}/payments", paymentcreate.New(logger, s.Checkout).ServeHTTP)
			r.Get("/payments/{paymentID}", paymentstatus.New(logger, s.Checkout, s.PaymentWait).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
