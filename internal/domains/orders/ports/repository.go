package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/shared/projection"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrDuplicatePaymentRef  = errors.New("payment reference already exists")
)

// OrderProjection is an order plus its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// SearchFilter narrows an order listing. Empty fields are ignored.
type SearchFilter struct {
	Kind   domain.Kind
	Query  string
	Status domain.Status
	Offset int
	Limit  int
}

// Repository persists orders. Every call is scoped to a single order kind.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	GetByID(ctx context.Context, kind domain.Kind, id string) (*OrderProjection, error)
	// Update loads the order, applies mutate and persists the result atomically.
	// When mutate returns an error nothing is written.
	Update(ctx context.Context, kind domain.Kind, id string, mutate func(*domain.Order) error) (*OrderProjection, error)
	// TransitionByPaymentReference sets the status of the order owning the gateway reference in a single conditional write.
	TransitionByPaymentReference(ctx context.Context, kind domain.Kind, reference string, status domain.Status) (*OrderProjection, error)
	// Delete removes the order when precondition accepts it and returns the removed snapshot.
	Delete(ctx context.Context, kind domain.Kind, id string, precondition func(*domain.Order) error) (*OrderProjection, error)
	Search(ctx context.Context, filter SearchFilter) ([]*OrderProjection, error)
	Count(ctx context.Context, filter SearchFilter) (int64, error)
	SummarizeByStatus(ctx context.Context, kind domain.Kind) ([]domain.StatusSummary, error)
}
