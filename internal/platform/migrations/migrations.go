package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters do not migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&idempotencyRecord{},
		&excursionRecord{},
		&yachtRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:uuid"`
	Kind             string          `gorm:"column:kind;type:varchar(16);index:idx_orders_kind_status"`
	OrderNumber      string          `gorm:"column:order_number;size:64;uniqueIndex:ux_orders_order_number"`
	CustomerName     string          `gorm:"column:customer_name;size:50"`
	CustomerEmail    string          `gorm:"column:customer_email;size:255"`
	CustomerPhone    string          `gorm:"column:customer_phone;size:15"`
	ProductName      string          `gorm:"column:product_name"`
	Details          map[string]any  `gorm:"column:details;type:jsonb;serializer:json"`
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

// Idempotency schema mirrors the orders idempotency store.
type idempotencyRecord struct {
	Kind        string    `gorm:"primaryKey;column:kind;type:varchar(16)"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Excursion schema mirrors the catalog Postgres adapter.
type excursionRecord struct {
	ID            string          `gorm:"primaryKey;column:id;size:64"`
	Name          string          `gorm:"column:name"`
	Location      string          `gorm:"column:location"`
	OfferPriceUSD decimal.Decimal `gorm:"column:offer_price_usd;type:numeric(12,2)"`
	ChildPriceUSD decimal.Decimal `gorm:"column:child_price_usd;type:numeric(12,2)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (excursionRecord) TableName() string { return "excursions" }

// Yacht schema mirrors the catalog Postgres adapter.
type yachtRecord struct {
	ID               string              `gorm:"primaryKey;column:id;size:64"`
	Name             string              `gorm:"column:name"`
	SaonaHalfDay     decimal.NullDecimal `gorm:"column:saona_half_day;type:numeric(12,2)"`
	SaonaFullDay     decimal.NullDecimal `gorm:"column:saona_full_day;type:numeric(12,2)"`
	CatalinaHalfDay  decimal.NullDecimal `gorm:"column:catalina_half_day;type:numeric(12,2)"`
	CatalinaFullDay  decimal.NullDecimal `gorm:"column:catalina_full_day;type:numeric(12,2)"`
	HalfDaySlots     pq.StringArray      `gorm:"column:half_day_slots;type:text[]"`
	FullDaySlot      string              `gorm:"column:full_day_slot"`
	RiverSunsetPrice decimal.NullDecimal `gorm:"column:river_sunset_price;type:numeric(12,2)"`
	RiverSunsetTime  string              `gorm:"column:river_sunset_time"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

func (yachtRecord) TableName() string { return "yachts" }
