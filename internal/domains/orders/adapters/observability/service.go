package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateExcursionOrder records an excursion booking request.
func (s *Service) CreateExcursionOrder(ctx context.Context, input ordertypes.CreateExcursionOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateExcursionOrder",
		attribute.String("order.kind", string(domain.KindExcursion)),
		attribute.String("excursion.id", input.ExcursionID),
		attribute.Int("order.adults", input.Adults),
		attribute.Int("order.children", input.Children),
	)
	defer span.End()

	s.logInfo(ctx, "creating excursion order", slog.String("excursion.id", input.ExcursionID))
	result, err := s.inner.CreateExcursionOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create excursion order", slog.String("excursion.id", input.ExcursionID))
	}
	s.recordCreated(ctx, span, result)
	return result, nil
}

// CreateYachtOrder records a yacht charter request.
func (s *Service) CreateYachtOrder(ctx context.Context, input ordertypes.CreateYachtOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateYachtOrder",
		attribute.String("order.kind", string(domain.KindYacht)),
		attribute.String("yacht.id", input.YachtID),
		attribute.String("yacht.destination", input.Destination),
		attribute.String("yacht.duration", input.Duration),
	)
	defer span.End()

	s.logInfo(ctx, "creating yacht order", slog.String("yacht.id", input.YachtID))
	result, err := s.inner.CreateYachtOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create yacht order", slog.String("yacht.id", input.YachtID))
	}
	s.recordCreated(ctx, span, result)
	return result, nil
}

// CreateTransferOrder records a transfer quote request.
func (s *Service) CreateTransferOrder(ctx context.Context, input ordertypes.CreateTransferOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateTransferOrder",
		attribute.String("order.kind", string(domain.KindTransfer)),
		attribute.String("transfer.type", input.TransferType),
		attribute.Int("transfer.passengers", input.NumPassengers),
	)
	defer span.End()

	s.logInfo(ctx, "creating transfer order", slog.String("transfer.type", input.TransferType))
	result, err := s.inner.CreateTransferOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create transfer order", slog.String("transfer.type", input.TransferType))
	}
	s.recordCreated(ctx, span, result)
	return result, nil
}

// CaptureExcursionPayment captures an approved payment.
func (s *Service) CaptureExcursionPayment(ctx context.Context, input ordertypes.CapturePaymentInput) (*ordertypes.CaptureResult, error) {
	ctx, span := s.startSpan(ctx, "Service.CaptureExcursionPayment", attribute.String("payment.gateway_order_id", input.GatewayOrderID))
	defer span.End()

	s.logInfo(ctx, "capturing payment", slog.String("gateway_order_id", input.GatewayOrderID))
	result, err := s.inner.CaptureExcursionPayment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to capture payment", slog.String("gateway_order_id", input.GatewayOrderID))
	}
	if result != nil && result.Order != nil && result.Order.Entity != nil {
		order := result.Order.Entity
		s.metrics.recordCaptured(ctx, order.Pricing.Currency)
		span.SetAttributes(attribute.String("order.number", order.OrderNumber), attribute.String("payment.capture_status", result.CaptureStatus))
		s.logInfo(ctx, "payment captured", slog.String("order_number", order.OrderNumber), slog.String("gateway_order_id", input.GatewayOrderID))
	}
	return result, nil
}

// UpdateExcursionOrder applies admin changes to an excursion order.
func (s *Service) UpdateExcursionOrder(ctx context.Context, input ordertypes.UpdateExcursionOrderInput) (*ordertypes.OrderProjection, error) {
	return s.traceUpdate(ctx, domain.KindExcursion, input.ID, func(ctx context.Context) (*ordertypes.OrderProjection, error) {
		return s.inner.UpdateExcursionOrder(ctx, input)
	})
}

// UpdateYachtOrder applies admin changes to a yacht order.
func (s *Service) UpdateYachtOrder(ctx context.Context, input ordertypes.UpdateYachtOrderInput) (*ordertypes.OrderProjection, error) {
	return s.traceUpdate(ctx, domain.KindYacht, input.ID, func(ctx context.Context) (*ordertypes.OrderProjection, error) {
		return s.inner.UpdateYachtOrder(ctx, input)
	})
}

// UpdateTransferOrder applies admin changes, including a quote, to a transfer order.
func (s *Service) UpdateTransferOrder(ctx context.Context, input ordertypes.UpdateTransferOrderInput) (*ordertypes.OrderProjection, error) {
	return s.traceUpdate(ctx, domain.KindTransfer, input.ID, func(ctx context.Context) (*ordertypes.OrderProjection, error) {
		return s.inner.UpdateTransferOrder(ctx, input)
	})
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", orderAttrs(input.Kind, input.ID)...)
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	return result, nil
}

// SearchOrders lists orders matching the filters.
func (s *Service) SearchOrders(ctx context.Context, input ordertypes.SearchOrdersInput) (*ordertypes.OrderPage, error) {
	ctx, span := s.startSpan(ctx, "Service.SearchOrders",
		attribute.String("order.kind", string(input.Kind)),
		attribute.String("order.status.requested", input.Status),
		attribute.Int("page", input.Page),
		attribute.Int("limit", input.Limit),
	)
	defer span.End()

	result, err := s.inner.SearchOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search orders", slog.String("order.kind", string(input.Kind)))
	}
	if result != nil {
		span.SetAttributes(attribute.Int("order.result.count", len(result.Items)), attribute.Int64("order.result.total", result.Total))
	}
	return result, nil
}

// SoftDelete marks an order as deleted.
func (s *Service) SoftDelete(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.SoftDelete", orderAttrs(input.Kind, input.ID)...)
	defer span.End()

	s.logInfo(ctx, "soft deleting order", slog.String("order.id", input.ID), slog.String("order.kind", string(input.Kind)))
	result, err := s.inner.SoftDelete(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to soft delete order", slog.String("order.id", input.ID))
	}
	s.metrics.recordDeleted(ctx, input.Kind)
	return result, nil
}

// Purge permanently removes a soft-deleted order.
func (s *Service) Purge(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Purge", orderAttrs(input.Kind, input.ID)...)
	defer span.End()

	s.logInfo(ctx, "purging order", slog.String("order.id", input.ID), slog.String("order.kind", string(input.Kind)))
	result, err := s.inner.Purge(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to purge order", slog.String("order.id", input.ID))
	}
	s.metrics.recordPurged(ctx, input.Kind)
	if result != nil && result.Entity != nil {
		s.logInfo(ctx, "order purged", slog.String("order_number", result.Entity.OrderNumber))
	}
	return result, nil
}

// Stats aggregates the dashboard figures of one order kind.
func (s *Service) Stats(ctx context.Context, kind domain.Kind) (*domain.Stats, error) {
	ctx, span := s.startSpan(ctx, "Service.Stats", attribute.String("order.kind", string(kind)))
	defer span.End()

	result, err := s.inner.Stats(ctx, kind)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute stats", slog.String("order.kind", string(kind)))
	}
	if result != nil {
		span.SetAttributes(attribute.Int64("order.stats.total", result.TotalOrders))
	}
	return result, nil
}

func (s *Service) traceUpdate(ctx context.Context, kind domain.Kind, id string, call func(context.Context) (*ordertypes.OrderProjection, error)) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Update"+kindName(kind)+"Order", orderAttrs(kind, id)...)
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", id), slog.String("order.kind", string(kind)))
	result, err := call(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", id))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordUpdated(ctx, kind, result.Entity.Status)
		span.SetAttributes(attribute.String("order.status", string(result.Entity.Status)))
		s.logInfo(ctx, "order updated", slog.String("order_number", result.Entity.OrderNumber), slog.String("status", string(result.Entity.Status)))
	}
	return result, nil
}

func (s *Service) recordCreated(ctx context.Context, span trace.Span, result *ordertypes.OrderProjection) {
	if result == nil || result.Entity == nil {
		return
	}
	order := result.Entity
	s.metrics.recordCreated(ctx, order.Kind)
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.number", order.OrderNumber))
	s.logInfo(ctx, "order created",
		slog.String("order.id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("order.kind", string(order.Kind)),
		slog.String("total", order.Pricing.Total.StringFixed(2)),
	)
}

func orderAttrs(kind domain.Kind, id string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("order.kind", string(kind)), attribute.String("order.id", id)}
}

func kindName(kind domain.Kind) string {
	switch kind {
	case domain.KindExcursion:
		return "Excursion"
	case domain.KindYacht:
		return "Yacht"
	case domain.KindTransfer:
		return "Transfer"
	}
	return ""
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersCaptured metric.Int64Counter
	ordersUpdated  metric.Int64Counter
	ordersDeleted  metric.Int64Counter
	ordersPurged   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersCaptured, _ := m.Int64Counter("orders.service.captured", metric.WithDescription("Number of payments captured"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of orders updated"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders soft deleted"))
	ordersPurged, _ := m.Int64Counter("orders.service.purged", metric.WithDescription("Number of orders purged"))
	return serviceMetrics{
		ordersCreated:  ordersCreated,
		ordersCaptured: ordersCaptured,
		ordersUpdated:  ordersUpdated,
		ordersDeleted:  ordersDeleted,
		ordersPurged:   ordersPurged,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("order.kind", string(kind)))
}

func (m serviceMetrics) recordCaptured(ctx context.Context, currency string) {
	addCounter(ctx, m.ordersCaptured, 1, attribute.String("payment.currency", currency))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, kind domain.Kind, status domain.Status) {
	addCounter(ctx, m.ordersUpdated, 1, attribute.String("order.kind", string(kind)), attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersDeleted, 1, attribute.String("order.kind", string(kind)))
}

func (m serviceMetrics) recordPurged(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersPurged, 1, attribute.String("order.kind", string(kind)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
