package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Service orchestrates the order lifecycle: intake, capture, admin updates, deletion and reporting.
type Service struct {
	repo        ports.Repository
	catalog     ports.Catalog
	gateway     ports.PaymentGateway
	notifier    ports.Notifier
	idempotency ports.IdempotencyStore
	strict      bool
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		catalog:  catalog,
		notifier: noopNotifier{},
		loc:      time.UTC,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateExcursionOrder prices an excursion, opens the processor order and persists it as pending.
func (s *Service) CreateExcursionOrder(ctx context.Context, input ordertypes.CreateExcursionOrderInput) (*ordertypes.OrderProjection, error) {
	hash, replay, err := s.replay(ctx, domain.KindExcursion, input.IdempotencyKey, func() (string, error) {
		return FingerprintExcursion(input)
	})
	if err != nil || replay != nil {
		return replay, mapError(err)
	}
	customer, err := newCustomer(input.Customer)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.validateDate(input.TravelDate); err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(input.ExcursionID) == "" {
		return nil, mapError(fmt.Errorf("%w: excursionId", domain.ErrMissingField))
	}
	excursion, err := s.catalog.GetExcursion(ctx, input.ExcursionID)
	if err != nil {
		return nil, mapError(err)
	}
	pricing, err := domain.QuoteExcursion(excursion.OfferPriceUSD, excursion.ChildPriceUSD, input.Adults, input.Children)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewExcursionOrder(customer, domain.ExcursionDetails{
		ExcursionID:   excursion.ID,
		ExcursionName: excursion.Name,
		Location:      excursion.Location,
		HotelName:     input.HotelName,
		HotelNumber:   input.HotelNumber,
		Adults:        input.Adults,
		Children:      input.Children,
	}, input.TravelDate, pricing)
	if err != nil {
		return nil, mapError(err)
	}
	s.identify(order)

	if s.gateway != nil {
		ref, err := s.gateway.CreatePayment(ctx, ports.PaymentRequest{
			Customer:    order.Customer,
			Amount:      order.Pricing.Total,
			Currency:    order.Pricing.Currency,
			Description: excursion.Name,
			Reference:   order.OrderNumber,
		})
		if err != nil {
			return nil, mapError(err)
		}
		if err := order.AssignPaymentReference(ref); err != nil {
			return nil, mapError(err)
		}
	}

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	saved, _ = s.remember(ctx, domain.KindExcursion, input.IdempotencyKey, hash, saved)
	return saved, nil
}

// CreateYachtOrder prices a charter from the yacht rate tables and persists it as pending.
func (s *Service) CreateYachtOrder(ctx context.Context, input ordertypes.CreateYachtOrderInput) (*ordertypes.OrderProjection, error) {
	hash, replay, err := s.replay(ctx, domain.KindYacht, input.IdempotencyKey, func() (string, error) {
		return FingerprintYacht(input)
	})
	if err != nil || replay != nil {
		return replay, mapError(err)
	}
	customer, err := newCustomer(input.Customer)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.validateDate(input.TravelDate); err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(input.YachtID) == "" {
		return nil, mapError(fmt.Errorf("%w: yachtId", domain.ErrMissingField))
	}
	yacht, err := s.catalog.GetYacht(ctx, input.YachtID)
	if err != nil {
		return nil, mapError(err)
	}
	rate, err := domain.SelectYachtRate(yacht.Rates(), input.Destination, input.Duration)
	if err != nil {
		return nil, mapError(err)
	}
	pricing, err := domain.QuoteYacht(rate.BasePrice)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewYachtOrder(customer, domain.YachtDetails{
		YachtID:     yacht.ID,
		YachtName:   yacht.Name,
		Destination: input.Destination,
		Duration:    input.Duration,
		TimeTrip:    rate.TimeTrip,
	}, input.TravelDate, pricing)
	if err != nil {
		return nil, mapError(err)
	}
	s.identify(order)

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	saved, replayed := s.remember(ctx, domain.KindYacht, input.IdempotencyKey, hash, saved)
	if !replayed {
		s.notify(ctx, domain.EventOrderRequested, saved.Entity)
	}
	return saved, nil
}

// CreateTransferOrder records a transfer request awaiting an admin quote.
func (s *Service) CreateTransferOrder(ctx context.Context, input ordertypes.CreateTransferOrderInput) (*ordertypes.OrderProjection, error) {
	hash, replay, err := s.replay(ctx, domain.KindTransfer, input.IdempotencyKey, func() (string, error) {
		return FingerprintTransfer(input)
	})
	if err != nil || replay != nil {
		return replay, mapError(err)
	}
	customer, err := newCustomer(input.Customer)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.validateDate(input.PickUpDate); err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewTransferOrder(customer, domain.TransferDetails{
		TransferType:   strings.ToLower(strings.TrimSpace(input.TransferType)),
		PickUpLocation: strings.TrimSpace(input.PickUpLocation),
		Destination:    strings.TrimSpace(input.Destination),
		NumPassengers:  input.NumPassengers,
		FlightNumber:   strings.ToUpper(strings.TrimSpace(input.FlightNumber)),
		ArrivalTime:    strings.TrimSpace(input.ArrivalTime),
	}, input.PickUpDate)
	if err != nil {
		return nil, mapError(err)
	}
	s.identify(order)

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	saved, replayed := s.remember(ctx, domain.KindTransfer, input.IdempotencyKey, hash, saved)
	if !replayed {
		s.notify(ctx, domain.EventOrderRequested, saved.Entity)
	}
	return saved, nil
}

// CaptureExcursionPayment settles a processor order and marks the matching excursion as paid.
func (s *Service) CaptureExcursionPayment(ctx context.Context, input ordertypes.CapturePaymentInput) (*ordertypes.CaptureResult, error) {
	ref := strings.TrimSpace(input.GatewayOrderID)
	if ref == "" {
		return nil, mapError(fmt.Errorf("%w: orderId", domain.ErrMissingField))
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: payment gateway not configured", ErrGateway)
	}
	result, err := s.gateway.CapturePayment(ctx, ref)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil || result.Status != ports.CaptureStatusCompleted {
		status := ""
		if result != nil {
			status = result.Status
		}
		return nil, fmt.Errorf("%w: capture status %q", ErrPaymentNotCompleted, status)
	}
	saved, err := s.repo.TransitionByPaymentReference(ctx, domain.KindExcursion, ref, domain.StatusPaid)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.logger.LogAttrs(ctx, slog.LevelError, "captured payment has no matching active order",
				slog.String("gateway_order_id", ref),
				slog.String("capture_status", result.Status),
			)
		}
		return nil, mapError(err)
	}
	s.notify(ctx, domain.EventPaymentCaptured, saved.Entity)
	return &ordertypes.CaptureResult{Order: saved, CaptureStatus: result.Status}, nil
}

// UpdateExcursionOrder applies admin changes to an excursion.
func (s *Service) UpdateExcursionOrder(ctx context.Context, input ordertypes.UpdateExcursionOrderInput) (*ordertypes.OrderProjection, error) {
	if input.Status == nil && input.InternalNotes == nil {
		return nil, errEmptyUpdate
	}
	var wasPaid bool
	saved, err := s.update(ctx, domain.KindExcursion, input.ID, func(o *domain.Order) error {
		wasPaid = o.Status == domain.StatusPaid
		return s.applyCommon(o, input.Status, input.InternalNotes)
	})
	if err != nil {
		return nil, err
	}
	if !wasPaid && saved.Entity.Status == domain.StatusPaid {
		s.notify(ctx, domain.EventOrderConfirmed, saved.Entity)
	}
	return saved, nil
}

// UpdateYachtOrder applies admin changes to a yacht charter, including the availability gate.
func (s *Service) UpdateYachtOrder(ctx context.Context, input ordertypes.UpdateYachtOrderInput) (*ordertypes.OrderProjection, error) {
	if input.Status == nil && input.InternalNotes == nil && input.IsAvailable == nil {
		return nil, errEmptyUpdate
	}
	var wasConfirmed bool
	saved, err := s.update(ctx, domain.KindYacht, input.ID, func(o *domain.Order) error {
		wasConfirmed = yachtConfirmed(o)
		if err := s.applyCommon(o, input.Status, input.InternalNotes); err != nil {
			return err
		}
		if input.IsAvailable != nil {
			return o.SetAvailability(*input.IsAvailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !wasConfirmed && yachtConfirmed(saved.Entity) {
		s.notify(ctx, domain.EventOrderConfirmed, saved.Entity)
	}
	return saved, nil
}

// UpdateTransferOrder applies admin changes to a transfer, including its quote.
func (s *Service) UpdateTransferOrder(ctx context.Context, input ordertypes.UpdateTransferOrderInput) (*ordertypes.OrderProjection, error) {
	if input.Status == nil && input.InternalNotes == nil && input.Pricing == nil {
		return nil, errEmptyUpdate
	}
	var wasPaid, wasQuoted bool
	saved, err := s.update(ctx, domain.KindTransfer, input.ID, func(o *domain.Order) error {
		wasPaid = o.Status == domain.StatusPaid
		wasQuoted = transferQuoteConfirmed(o)
		if input.Pricing != nil {
			if err := o.Pricing.Requote(input.Pricing.TotalPrice, input.Pricing.Currency); err != nil {
				return err
			}
		}
		return s.applyCommon(o, input.Status, input.InternalNotes)
	})
	if err != nil {
		return nil, err
	}
	switch {
	case !wasPaid && saved.Entity.Status == domain.StatusPaid:
		s.notify(ctx, domain.EventOrderConfirmed, saved.Entity)
	case !wasQuoted && transferQuoteConfirmed(saved.Entity):
		s.notify(ctx, domain.EventQuoteConfirmed, saved.Entity)
	}
	return saved, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	if err := validateIdentifier(input.Kind, input.ID); err != nil {
		return nil, err
	}
	found, err := s.repo.GetByID(ctx, input.Kind, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// SearchOrders returns one page of orders, newest first, together with the total match count.
func (s *Service) SearchOrders(ctx context.Context, input ordertypes.SearchOrdersInput) (*ordertypes.OrderPage, error) {
	if _, err := domain.ParseKind(string(input.Kind)); err != nil {
		return nil, mapError(err)
	}
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	filter := ports.SearchFilter{
		Kind:   input.Kind,
		Query:  strings.TrimSpace(input.Query),
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Status = status
	}

	var (
		items []*ordertypes.OrderProjection
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.Search(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapError(err)
	}
	return &ordertypes.OrderPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// SoftDelete marks the order as deleted. Repeating the call is not an error.
func (s *Service) SoftDelete(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	return s.update(ctx, input.Kind, input.ID, func(o *domain.Order) error {
		o.SoftDelete()
		return nil
	})
}

// Purge permanently removes a soft-deleted order and returns its last state.
func (s *Service) Purge(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	if err := validateIdentifier(input.Kind, input.ID); err != nil {
		return nil, err
	}
	removed, err := s.repo.Delete(ctx, input.Kind, input.ID, func(o *domain.Order) error {
		return o.EnsurePurgeable()
	})
	if err != nil {
		return nil, mapError(err)
	}
	return removed, nil
}

// Stats reports per-status counts and revenue for one order kind.
func (s *Service) Stats(ctx context.Context, kind domain.Kind) (*domain.Stats, error) {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return nil, mapError(err)
	}
	rows, err := s.repo.SummarizeByStatus(ctx, kind)
	if err != nil {
		return nil, mapError(err)
	}
	stats := domain.AggregateStats(kind, rows)
	return &stats, nil
}

var errEmptyUpdate = fmt.Errorf("%w: no updatable fields provided", ErrInvalidInput)

func (s *Service) update(ctx context.Context, kind domain.Kind, id string, mutate func(*domain.Order) error) (*ordertypes.OrderProjection, error) {
	if err := validateIdentifier(kind, id); err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, kind, id, func(o *domain.Order) error {
		if err := mutate(o); err != nil {
			return err
		}
		return o.Validate()
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) applyCommon(o *domain.Order, status, notes *string) error {
	if status != nil {
		next, err := domain.ParseStatus(*status)
		if err != nil {
			return err
		}
		if err := o.ChangeStatus(next, s.strict); err != nil {
			return err
		}
	}
	if notes != nil {
		if err := o.UpdateNotes(*notes); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) validateDate(date time.Time) error {
	return domain.ValidateTravelDate(date, s.now().In(s.loc))
}

func (s *Service) identify(order *domain.Order) {
	order.ID = uuid.NewString()
	order.OrderNumber = domain.NewOrderNumber(order.Kind, s.now())
}

func (s *Service) notify(ctx context.Context, t domain.EventType, order *domain.Order) {
	if order == nil {
		return
	}
	s.notifier.Notify(ctx, domain.NewOrderEvent(t, order, s.now()))
}

func newCustomer(in ordertypes.CustomerInput) (domain.Customer, error) {
	return domain.NewCustomer(in.FullName, in.Email, in.Phone)
}

func validateIdentifier(kind domain.Kind, id string) error {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return mapError(err)
	}
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("%w: invalid order id %q", ErrInvalidInput, id)
	}
	return nil
}

func yachtConfirmed(o *domain.Order) bool {
	return o.Status == domain.StatusConfirmed && o.Yacht != nil && o.Yacht.IsAvailable
}

func transferQuoteConfirmed(o *domain.Order) bool {
	return o.Status == domain.StatusConfirmed && o.Pricing.Total.IsPositive()
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.OrderEvent) {}

var _ ports.Service = (*Service)(nil)
