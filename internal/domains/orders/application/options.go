package application

import (
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithPaymentGateway enables processor-side orders for excursions.
func WithPaymentGateway(gateway ports.PaymentGateway) Option {
	return func(s *Service) {
		s.gateway = gateway
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(notifier ports.Notifier) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithIdempotencyStore enables replay of intake requests carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithStrictTransitions rejects status changes outside the lifecycle graph.
func WithStrictTransitions() Option {
	return func(s *Service) {
		s.strict = true
	}
}

// WithLocation sets the business timezone used for the travel date check.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for reconciliation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
