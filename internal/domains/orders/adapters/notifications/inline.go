package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

const defaultDeliveryTimeout = 30 * time.Second

// Dispatcher renders events and hands the messages to a mailer.
type Dispatcher struct {
	composer *Composer
	mailer   ports.Mailer
}

// NewDispatcher pairs a composer with a mailer.
func NewDispatcher(composer *Composer, mailer ports.Mailer) *Dispatcher {
	return &Dispatcher{composer: composer, mailer: mailer}
}

// Deliver sends every message rendered for the event.
// All messages are attempted; failures are joined.
func (d *Dispatcher) Deliver(ctx context.Context, event domain.OrderEvent) error {
	if d == nil || d.composer == nil || d.mailer == nil {
		return errors.New("notification delivery not configured")
	}
	messages, err := d.composer.Compose(event)
	if err != nil {
		return err
	}
	var sendErr error
	for _, msg := range messages {
		sendErr = errors.Join(sendErr, d.mailer.Send(ctx, msg))
	}
	return sendErr
}

// InlineNotifier sends emails from a detached goroutine inside the API process.
type InlineNotifier struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

// InlineOption customizes an InlineNotifier.
type InlineOption func(*InlineNotifier)

// WithLogger injects the logger used for delivery failures.
func WithLogger(logger *slog.Logger) InlineOption {
	return func(n *InlineNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithTimeout bounds a single delivery.
func WithTimeout(d time.Duration) InlineOption {
	return func(n *InlineNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// NewInlineNotifier wires a dispatcher into the notifier port.
func NewInlineNotifier(dispatcher *Dispatcher, opts ...InlineOption) *InlineNotifier {
	n := &InlineNotifier{
		dispatcher: dispatcher,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:    defaultDeliveryTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Notify returns immediately; the request context may be cancelled before delivery ends.
func (n *InlineNotifier) Notify(ctx context.Context, event domain.OrderEvent) {
	if n == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		deliveryCtx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()
		if err := n.dispatcher.Deliver(deliveryCtx, event); err != nil {
			n.logger.LogAttrs(deliveryCtx, slog.LevelError, "order notification failed",
				slog.String("event", event.EventName()),
				slog.String("order_number", event.Order.OrderNumber),
				slog.String("error", err.Error()),
			)
			return
		}
		n.logger.LogAttrs(deliveryCtx, slog.LevelInfo, "order notification sent",
			slog.String("event", event.EventName()),
			slog.String("order_number", event.Order.OrderNumber),
		)
	}()
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (n *InlineNotifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

var _ ports.Notifier = (*InlineNotifier)(nil)
