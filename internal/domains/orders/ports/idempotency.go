package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload or target.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a client-supplied key with the order it created.
type IdempotencyRecord struct {
	Kind        domain.Kind
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists intake keys so client retries replay the original order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, kind domain.Kind, key string) (*IdempotencyRecord, error)
	// Save persists the record. An identical existing record is returned as is;
	// a record with a different hash or order yields ErrIdempotencyConflict with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

// IdempotencyPurger expires old keys. Run periodically by cmd/idempotency-purger.
type IdempotencyPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DefaultIdempotencyTTL is how long a key replays its order.
const DefaultIdempotencyTTL = 24 * time.Hour
