package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-booking-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	order    *domain.Order
	metadata projection.Metadata
}

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{entries: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if order.ID == "" {
		return nil, errors.New("order id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.order.OrderNumber == order.OrderNumber {
			return nil, ports.ErrDuplicateOrderNumber
		}
		if order.PaymentReference != "" && e.order.PaymentReference == order.PaymentReference {
			return nil, ports.ErrDuplicatePaymentRef
		}
	}
	if _, ok := r.entries[order.ID]; ok {
		return nil, ports.ErrDuplicateOrderNumber
	}
	now := r.now()
	e := &entry{order: order.Clone(), metadata: projection.Stamp(now, now)}
	r.entries[order.ID] = e
	return e.project(), nil
}

func (r *Repository) GetByID(_ context.Context, kind domain.Kind, id string) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	return e.project(), nil
}

func (r *Repository) Update(_ context.Context, kind domain.Kind, id string, mutate func(*domain.Order) error) (*ports.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	working := e.order.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	e.order = working
	e.metadata = e.metadata.Touch(r.now())
	return e.project(), nil
}

func (r *Repository) TransitionByPaymentReference(_ context.Context, kind domain.Kind, reference string, status domain.Status) (*ports.OrderProjection, error) {
	if reference == "" {
		return nil, ports.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.order.Kind == kind && e.order.PaymentReference == reference && e.order.Status != domain.StatusDeleted {
			e.order.Status = status
			e.metadata = e.metadata.Touch(r.now())
			return e.project(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, kind domain.Kind, id string, precondition func(*domain.Order) error) (*ports.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	if precondition != nil {
		if err := precondition(e.order.Clone()); err != nil {
			return nil, err
		}
	}
	delete(r.entries, id)
	return e.project(), nil
}

func (r *Repository) Search(_ context.Context, filter ports.SearchFilter) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := r.filter(filter)
	if filter.Offset >= len(matches) {
		return []*ports.OrderProjection{}, nil
	}
	end := len(matches)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	list := make([]*ports.OrderProjection, 0, end-filter.Offset)
	for _, e := range matches[filter.Offset:end] {
		list = append(list, e.project())
	}
	return list, nil
}

func (r *Repository) Count(_ context.Context, filter ports.SearchFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(filter))), nil
}

func (r *Repository) SummarizeByStatus(_ context.Context, kind domain.Kind) ([]domain.StatusSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byStatus := map[domain.Status]*domain.StatusSummary{}
	for _, e := range r.entries {
		if e.order.Kind != kind {
			continue
		}
		row, ok := byStatus[e.order.Status]
		if !ok {
			row = &domain.StatusSummary{Status: e.order.Status, Revenue: decimal.Zero}
			byStatus[e.order.Status] = row
		}
		row.Count++
		row.Revenue = row.Revenue.Add(e.order.Pricing.Total)
	}
	rows := make([]domain.StatusSummary, 0, len(byStatus))
	for _, status := range domain.Statuses {
		if row, ok := byStatus[status]; ok {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (r *Repository) lookup(kind domain.Kind, id string) (*entry, error) {
	e, ok := r.entries[id]
	if !ok || e.order.Kind != kind {
		return nil, ports.ErrNotFound
	}
	return e, nil
}

func (r *Repository) filter(filter ports.SearchFilter) []*entry {
	query := strings.ToLower(filter.Query)
	var matches []*entry
	for _, e := range r.entries {
		o := e.order
		if o.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(o.Customer.FullName), query) &&
			!strings.Contains(strings.ToLower(o.OrderNumber), query) &&
			!strings.Contains(strings.ToLower(o.ProductName()), query) {
			continue
		}
		matches = append(matches, e)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].metadata.CreatedAt.Equal(matches[j].metadata.CreatedAt) {
			return matches[i].order.OrderNumber > matches[j].order.OrderNumber
		}
		return matches[i].metadata.CreatedAt.After(matches[j].metadata.CreatedAt)
	})
	return matches
}

func (e *entry) project() *ports.OrderProjection {
	return &ports.OrderProjection{Entity: e.order.Clone(), Metadata: e.metadata}
}
