package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-booking-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/catalog/ports"
)

var _ ports.Store = (*Store)(nil)

// Store reads catalog entries from PostgreSQL using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed catalog. Caller manages DB lifecycle and migrations.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

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

// GetExcursion fetches an excursion by identifier.
func (s *Store) GetExcursion(ctx context.Context, id string) (*domain.Excursion, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record excursionRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrExcursionNotFound
		}
		return nil, err
	}
	return &domain.Excursion{
		ID:            record.ID,
		Name:          record.Name,
		Location:      record.Location,
		OfferPriceUSD: record.OfferPriceUSD,
		ChildPriceUSD: record.ChildPriceUSD,
	}, nil
}

// GetYacht fetches a yacht and its rate tables.
func (s *Store) GetYacht(ctx context.Context, id string) (*domain.Yacht, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record yachtRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrYachtNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// SaveExcursion upserts an excursion.
func (s *Store) SaveExcursion(ctx context.Context, excursion *domain.Excursion) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if excursion == nil {
		return errors.New("excursion is nil")
	}
	record := excursionRecord{
		ID:            excursion.ID,
		Name:          excursion.Name,
		Location:      excursion.Location,
		OfferPriceUSD: excursion.OfferPriceUSD,
		ChildPriceUSD: excursion.ChildPriceUSD,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "location", "offer_price_usd", "child_price_usd", "updated_at"}),
	}).Create(&record).Error
}

// SaveYacht upserts a yacht.
func (s *Store) SaveYacht(ctx context.Context, yacht *domain.Yacht) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if yacht == nil {
		return errors.New("yacht is nil")
	}
	record := toYachtRecord(yacht)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "saona_half_day", "saona_full_day", "catalina_half_day", "catalina_full_day",
			"half_day_slots", "full_day_slot", "river_sunset_price", "river_sunset_time", "updated_at",
		}),
	}).Create(&record).Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres catalog store not configured")
	}
	return nil
}

func toYachtRecord(y *domain.Yacht) yachtRecord {
	rec := yachtRecord{
		ID:           y.ID,
		Name:         y.Name,
		HalfDaySlots: pq.StringArray(y.TimeAvailable.HalfDay),
		FullDaySlot:  y.TimeAvailable.FullDay,
	}
	if y.SaonaPrice != nil {
		rec.SaonaHalfDay = nullable(y.SaonaPrice.HalfDay)
		rec.SaonaFullDay = nullable(y.SaonaPrice.FullDay)
	}
	if y.CatalinaPrice != nil {
		rec.CatalinaHalfDay = nullable(y.CatalinaPrice.HalfDay)
		rec.CatalinaFullDay = nullable(y.CatalinaPrice.FullDay)
	}
	if y.RiverSunset != nil {
		rec.RiverSunsetPrice = nullable(y.RiverSunset.Price)
		rec.RiverSunsetTime = y.RiverSunset.TimeTrip
	}
	return rec
}

func (r yachtRecord) toDomain() *domain.Yacht {
	y := &domain.Yacht{
		ID:   r.ID,
		Name: r.Name,
		TimeAvailable: domain.TimeAvailable{
			HalfDay: append([]string(nil), r.HalfDaySlots...),
			FullDay: r.FullDaySlot,
		},
	}
	if r.SaonaHalfDay.Valid || r.SaonaFullDay.Valid {
		y.SaonaPrice = &domain.PriceTable{HalfDay: pointer(r.SaonaHalfDay), FullDay: pointer(r.SaonaFullDay)}
	}
	if r.CatalinaHalfDay.Valid || r.CatalinaFullDay.Valid {
		y.CatalinaPrice = &domain.PriceTable{HalfDay: pointer(r.CatalinaHalfDay), FullDay: pointer(r.CatalinaFullDay)}
	}
	if r.RiverSunsetPrice.Valid || r.RiverSunsetTime != "" {
		y.RiverSunset = &domain.RiverSunset{Price: pointer(r.RiverSunsetPrice), TimeTrip: r.RiverSunsetTime}
	}
	return y
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func pointer(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
