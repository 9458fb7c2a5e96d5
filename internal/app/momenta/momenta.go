package momenta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/moment-a/internal/config"
	"github.com/magabrotheeeer/moment-a/internal/events"
	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/lib/jwt"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/migrations"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/paymentprovider"
	"github.com/magabrotheeeer/moment-a/internal/rabbitmq"
	"github.com/magabrotheeeer/moment-a/internal/services/accounts"
	"github.com/magabrotheeeer/moment-a/internal/services/login"
	"github.com/magabrotheeeer/moment-a/internal/services/payment"
	"github.com/magabrotheeeer/moment-a/internal/services/session"
	"github.com/magabrotheeeer/moment-a/internal/services/signup"
	"github.com/magabrotheeeer/moment-a/internal/services/subscription"
	"github.com/magabrotheeeer/moment-a/internal/store"
)

// Publisher публикует события приложения.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Services зависимости HTTP-маршрутов.
type Services struct {
	Tokens       *jwt.MakerImpl
	Pinger       interface{ Ping(ctx context.Context) error }
	Sessions     *session.Holder
	Signup       *signup.Service
	Login        *login.Service
	Ledger       *subscription.Ledger
	Checkout     *payment.Checkout
	LoginLimiter *middlewarectx.Limiter
	PaymentWait  time.Duration
}

// App HTTP-приложение со всеми ресурсами.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	checkout *payment.Checkout
	closers  []io.Closer
}

// Backend хранилище с проверкой доступности.
type Backend interface {
	store.Store
	Ping(ctx context.Context) error
}

// OpenStore открывает хранилище выбранного драйвера. Для postgres применяются миграции.
func OpenStore(ctx context.Context, cfg *config.Config) (Backend, io.Closer, error) {
	const op = "momenta.OpenStore"
	switch cfg.StorageDriver {
	case config.StorageRedis:
		r, err := store.NewRedis(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return r, r, nil
	case config.StoragePostgres:
		p, err := store.NewPostgres(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(p.DB, cfg.MigrationsPath); err != nil {
			_ = p.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return p, p, nil
	default:
		return store.NewMemory(), nil, nil
	}
}

// amqpResources канал и соединение брокера, закрываемые вместе.
type amqpResources struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (a amqpResources) Close() error {
	return errors.Join(a.ch.Close(), a.conn.Close())
}

// OpenPublisher подключается к брокеру, если он настроен, иначе пишет события в лог.
func OpenPublisher(cfg *config.Config, logger *slog.Logger) (Publisher, io.Closer, error) {
	const op = "momenta.OpenPublisher"
	if cfg.RabbitMQURL == "" {
		logger.Info("rabbitmq is not configured, events go to the log")
		return events.NewLogPublisher(logger), nil, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange, ReceiptQueues())
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return events.NewAMQPPublisher(ch, cfg.RabbitMQExchange), amqpResources{conn: conn, ch: ch}, nil
}

// ReceiptQueues очереди, которые слушает отправитель чеков.
func ReceiptQueues() []rabbitmq.QueueConfig {
	return []rabbitmq.QueueConfig{
		{QueueName: ReceiptQueue, RoutingKey: models.EventPaymentReceipt},
	}
}

// ReceiptQueue очередь событий payment.receipt.
const ReceiptQueue = "momenta.receipts"

// NewServices собирает доменные сервисы поверх хранилища и публикатора.
func NewServices(cfg *config.Config, st Backend, publisher Publisher, logger *slog.Logger) *Services {
	sessions := session.New(st, cfg.DisplayName, logger)
	directory := accounts.NewDirectory(st, logger)
	ledger := subscription.NewLedger(st, sessions, logger)
	checkout := payment.NewCheckout(
		paymentprovider.NewSimulated(cfg.PaymentLatency),
		ledger,
		sessions,
		publisher,
		payment.Options{Timeout: cfg.PaymentTimeout, Retention: cfg.PaymentRetention},
		logger,
	)

	paymentWait := cfg.TimeoutHTTP - time.Second
	if paymentWait <= 0 {
		paymentWait = cfg.TimeoutHTTP / 2
	}

	return &Services{
		Tokens:       jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Pinger:       st,
		Sessions:     sessions,
		Signup:       signup.New(cfg.VerificationCode, directory, sessions, publisher, logger),
		Login:        login.New(directory, sessions, publisher, logger),
		Ledger:       ledger,
		Checkout:     checkout,
		LoginLimiter: middlewarectx.NewLimiter(cfg.LoginRPS, cfg.LoginBurst),
		PaymentWait:  paymentWait,
	}
}

// New создаёт приложение: хранилище, брокер, сервисы и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, storeCloser, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var closers []io.Closer
	if storeCloser != nil {
		closers = append(closers, storeCloser)
	}

	publisher, publisherCloser, err := OpenPublisher(cfg, logger)
	if err != nil {
		closeAll(closers, logger)
		return nil, err
	}
	if publisherCloser != nil {
		// брокер закрывается раньше хранилища
		closers = append([]io.Closer{publisherCloser}, closers...)
	}

	services := NewServices(cfg, st, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info("app initialized", slog.String("storage", cfg.StorageDriver))
	return &App{
		server:   srv,
		logger:   logger,
		checkout: services.Checkout,
		closers:  closers,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его вместе с ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.release()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.release()
		return err
	}
}

// release дожидается фоновых платежей и закрывает ресурсы.
func (a *App) release() {
	a.checkout.Close()
	closeAll(a.closers, a.logger)
}

func closeAll(closers []io.Closer, logger *slog.Logger) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("failed to close resource", sl.Err(err))
		}
	}
}
