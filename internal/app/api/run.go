package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	bookingserver "github.com/Apurer/go-gin-booking-api/go"

	catalogmemory "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/ports"
	ordermemory "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/memory"
	ordernotifications "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/notifications"
	ordersobs "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/observability"
	paypalgateway "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/payments/paypal"
	orderpostgres "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"

	paypalclient "github.com/Apurer/go-gin-booking-api/internal/clients/http/paypal"
	"github.com/Apurer/go-gin-booking-api/internal/platform/mail"
	"github.com/Apurer/go-gin-booking-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-booking-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-booking-api/internal/platform/postgres"
)

const shutdownTimeout = 10 * time.Second

// Run boots the booking HTTP API with observability, repositories, payments and notifications wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	const serviceName = "booking-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	stores, cleanupStores := buildStores(ctx, cfg, logger)
	defer cleanupStores()

	opts := []ordersapp.Option{
		ordersapp.WithIdempotencyStore(stores.idempotency),
		ordersapp.WithLocation(loc),
		ordersapp.WithLogger(logger),
	}
	if cfg.StrictStatus {
		opts = append(opts, ordersapp.WithStrictTransitions())
	}
	if gateway, err := buildPaymentGateway(cfg); err != nil {
		logger.Warn("PayPal gateway unavailable, excursion payments disabled", slog.String("error", err.Error()))
	} else {
		opts = append(opts, ordersapp.WithPaymentGateway(gateway))
		logger.Info("PayPal gateway configured", slog.String("mode", cfg.PayPalMode))
	}

	notifier, closeNotifier := buildNotifier(cfg, instruments)
	defer closeNotifier()
	opts = append(opts, ordersapp.WithNotifier(notifier))

	coreService := ordersapp.NewService(stores.orders, stores.catalog, opts...)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	handlers := bookingserver.ApiHandleFunctions{
		OrdersAPI: bookingserver.NewOrdersAPI(orderService, loc),
	}
	routerOpts := bookingserver.RouterOptions{
		AdminToken: cfg.AdminAPIToken,
		Logger:     logger,
		Middleware: []gin.HandlerFunc{otelgin.Middleware(serviceName)},
	}
	if cfg.RateLimitRPS > 0 {
		routerOpts.WriteLimiter = bookingserver.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.AdminAPIToken == "" {
		logger.Warn("ADMIN_API_TOKEN not set, admin routes are unauthenticated")
	}

	router := bookingserver.NewRouter(handlers, routerOpts)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Booking API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Booking API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Booking API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Booking API stopped")
	return nil
}

type orderStores struct {
	orders      orderports.Repository
	catalog     catalogports.Reader
	idempotency orderports.IdempotencyStore
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (orderStores, func()) {
	memory := orderStores{
		orders:      ordermemory.NewRepository(),
		catalog:     catalogmemory.NewStore(),
		idempotency: ordermemory.NewIdempotencyStore(),
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		logger.Warn("catalog is empty in memory mode, bookings will report unknown excursions and yachts")
		return memory, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return memory, func() {}
	}
	logger.Info("order repository configured with postgres")
	return orderStores{
		orders:      orderpostgres.NewRepository(db),
		catalog:     catalogpostgres.NewStore(db),
		idempotency: orderpostgres.NewIdempotencyStore(db),
	}, cleanup
}

func buildPaymentGateway(cfg Config) (orderports.PaymentGateway, error) {
	if !cfg.PayPalConfigured() {
		return nil, errors.New("PAYPAL_CLIENT_ID or PAYPAL_CLIENT_SECRET not set")
	}
	c, err := paypalclient.NewClient(paypalclient.Config{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		Mode:         cfg.PayPalMode,
		Timeout:      cfg.PayPalTimeout,
	}, nil)
	if err != nil {
		return nil, err
	}
	return paypalgateway.NewGateway(c, cfg.PayPalBrandName), nil
}

// buildNotifier prefers Temporal and falls back to in-process delivery.
func buildNotifier(cfg Config, instruments *platformobservability.Instruments) (orderports.Notifier, func()) {
	logger := effectiveLogger(instruments)
	temporalClient, err := DialTemporal(cfg, instruments)
	if err == nil {
		logger.Info("Temporal notifications enabled", slog.String("namespace", cfg.TemporalNamespace))
		return ordernotifications.NewTemporalNotifier(temporalClient, logger), temporalClient.Close
	}
	logger.Warn("Temporal workflows unavailable, sending notifications inline", slog.String("error", err.Error()))
	inline := ordernotifications.NewInlineNotifier(NewDispatcher(cfg, logger), ordernotifications.WithLogger(logger))
	return inline, inline.Wait
}

// NewDispatcher renders order emails and sends them over SMTP, or logs them when SMTP is not configured.
func NewDispatcher(cfg Config, logger *slog.Logger) *ordernotifications.Dispatcher {
	var mailer orderports.Mailer
	smtp, err := mail.NewSMTPMailer(cfg.SMTP())
	if err != nil {
		logger.Warn("SMTP mailer unavailable, logging outgoing mail", slog.String("error", err.Error()))
		mailer = mail.NewLogMailer(logger)
	} else {
		mailer = smtp
	}
	if cfg.ContactEmailReceiver == "" {
		logger.Warn("CONTACT_EMAIL_RECEIVER not set, operator notifications disabled")
	}
	composer := ordernotifications.NewComposer(cfg.PayPalBrandName, cfg.ContactEmailReceiver)
	return ordernotifications.NewDispatcher(composer, mailer)
}

// DialTemporal connects a traced Temporal client unless TEMPORAL_DISABLED is set.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
