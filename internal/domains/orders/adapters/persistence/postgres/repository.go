package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-booking-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-booking-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders of every kind in a single PostgreSQL table using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderDetails holds the kind-specific part of an order. Exactly one field is set.
type orderDetails struct {
	Excursion *domain.ExcursionDetails `json:"excursion,omitempty"`
	Yacht     *domain.YachtDetails     `json:"yacht,omitempty"`
	Transfer  *domain.TransferDetails  `json:"transfer,omitempty"`
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:uuid"`
	Kind             string          `gorm:"column:kind;type:varchar(16);index:idx_orders_kind_status"`
	OrderNumber      string          `gorm:"column:order_number;size:64;uniqueIndex:ux_orders_order_number"`
	CustomerName     string          `gorm:"column:customer_name;size:50"`
	CustomerEmail    string          `gorm:"column:customer_email;size:255"`
	CustomerPhone    string          `gorm:"column:customer_phone;size:15"`
	ProductName      string          `gorm:"column:product_name"`
	Details          orderDetails    `gorm:"column:details;type:jsonb;serializer:json"`
	TravelDate       time.Time       `gorm:"column:travel_date"`
	AdultUnitPrice   decimal.Decimal `gorm:"column:adult_unit_price;type:numeric(12,2)"`
	ChildUnitPrice   decimal.Decimal `gorm:"column:child_unit_price;type:numeric(12,2)"`
	BasePrice        decimal.Decimal `gorm:"column:base_price;type:numeric(12,2)"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	Tax              decimal.Decimal `gorm:"column:tax;type:numeric(12,2)"`
	Total            decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Currency         string          `gorm:"column:currency;type:char(3)"`
	PaymentReference *string         `gorm:"column:payment_reference;size:64;uniqueIndex:ux_orders_payment_reference"`
	Status           string          `gorm:"column:status;type:varchar(16);index:idx_orders_kind_status"`
	InternalNotes    string          `gorm:"column:internal_notes;type:text"`
	CreatedAt        time.Time       `gorm:"column:created_at;index"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type statusRow struct {
	Status  string
	Count   int64
	Revenue decimal.Decimal
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toProjection(), nil
}

// GetByID fetches an order by identifier within its kind.
func (r *Repository) GetByID(ctx context.Context, kind domain.Kind, id string) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ? AND kind = ?", id, string(kind)).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toProjection(), nil
}

// Update locks the row, applies mutate and writes the result in one transaction.
func (r *Repository) Update(ctx context.Context, kind domain.Kind, id string, mutate func(*domain.Order) error) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var saved orderRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND kind = ?", id, string(kind)).Error; err != nil {
			return err
		}
		order := record.toDomain()
		if err := mutate(order); err != nil {
			return err
		}
		next := toRecord(order)
		next.CreatedAt = record.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return saved.toProjection(), nil
}

// TransitionByPaymentReference updates the status in a single conditional statement.
// Soft-deleted orders never match.
func (r *Repository) TransitionByPaymentReference(ctx context.Context, kind domain.Kind, reference string, status domain.Status) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reference) == "" {
		return nil, ports.ErrNotFound
	}
	var records []orderRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("kind = ? AND payment_reference = ? AND status <> ?", string(kind), reference, string(domain.StatusDeleted)).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toProjection(), nil
}

// Delete removes the order when precondition accepts the locked row.
func (r *Repository) Delete(ctx context.Context, kind domain.Kind, id string, precondition func(*domain.Order) error) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var removed orderRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND kind = ?", id, string(kind)).Error; err != nil {
			return err
		}
		if precondition != nil {
			if err := precondition(record.toDomain()); err != nil {
				return err
			}
		}
		if err := tx.Delete(&orderRecord{}, "id = ?", record.ID).Error; err != nil {
			return err
		}
		removed = record
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return removed.toProjection(), nil
}

// Search returns matching orders, newest first.
func (r *Repository) Search(ctx context.Context, filter ports.SearchFilter) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	query := r.filtered(ctx, filter).Order("created_at DESC").Order("order_number DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// Count returns the number of orders matching the filter, ignoring paging.
func (r *Repository) Count(ctx context.Context, filter ports.SearchFilter) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SummarizeByStatus groups the kind's orders by status with count and summed totals.
func (r *Repository) SummarizeByStatus(ctx context.Context, kind domain.Kind) ([]domain.StatusSummary, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("kind = ?", string(kind)).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	summaries := make([]domain.StatusSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.StatusSummary{
			Status:  domain.Status(row.Status),
			Count:   row.Count,
			Revenue: row.Revenue,
		})
	}
	return summaries, nil
}

func (r *Repository) filtered(ctx context.Context, filter ports.SearchFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&orderRecord{}).Where("kind = ?", string(filter.Kind))
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query = query.Where("(customer_name ILIKE ? OR order_number ILIKE ? OR product_name ILIKE ?)", pattern, pattern, pattern)
	}
	return query
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	if constraint, ok := platformpostgres.UniqueViolation(err); ok {
		if strings.Contains(constraint, "payment_reference") {
			return ports.ErrDuplicatePaymentRef
		}
		return ports.ErrDuplicateOrderNumber
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toRecord(o *domain.Order) orderRecord {
	rec := orderRecord{
		ID:             o.ID,
		Kind:           string(o.Kind),
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.Customer.FullName,
		CustomerEmail:  o.Customer.Email,
		CustomerPhone:  o.Customer.Phone,
		ProductName:    o.ProductName(),
		Details:        orderDetails{Excursion: o.Excursion, Yacht: o.Yacht, Transfer: o.Transfer},
		TravelDate:     o.TravelDate,
		AdultUnitPrice: o.Pricing.AdultUnitPrice,
		ChildUnitPrice: o.Pricing.ChildUnitPrice,
		BasePrice:      o.Pricing.BasePrice,
		Subtotal:       o.Pricing.Subtotal,
		Tax:            o.Pricing.Tax,
		Total:          o.Pricing.Total,
		Currency:       o.Pricing.Currency,
		Status:         string(o.Status),
		InternalNotes:  o.InternalNotes,
	}
	if o.PaymentReference != "" {
		ref := o.PaymentReference
		rec.PaymentReference = &ref
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	o := &domain.Order{
		ID:          r.ID,
		Kind:        domain.Kind(r.Kind),
		OrderNumber: r.OrderNumber,
		Customer: domain.Customer{
			FullName: r.CustomerName,
			Email:    r.CustomerEmail,
			Phone:    r.CustomerPhone,
		},
		Excursion:  r.Details.Excursion,
		Yacht:      r.Details.Yacht,
		Transfer:   r.Details.Transfer,
		TravelDate: r.TravelDate,
		Pricing: domain.Pricing{
			AdultUnitPrice: r.AdultUnitPrice,
			ChildUnitPrice: r.ChildUnitPrice,
			BasePrice:      r.BasePrice,
			Subtotal:       r.Subtotal,
			Tax:            r.Tax,
			Total:          r.Total,
			Currency:       r.Currency,
		},
		Status:        domain.Status(r.Status),
		InternalNotes: r.InternalNotes,
	}
	if r.PaymentReference != nil {
		o.PaymentReference = *r.PaymentReference
	}
	return o.Clone()
}

func (r orderRecord) toProjection() *ports.OrderProjection {
	return &ports.OrderProjection{
		Entity:   r.toDomain(),
		Metadata: projection.Stamp(r.CreatedAt, r.UpdatedAt),
	}
}
