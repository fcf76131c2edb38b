//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

func TestIdempotencyStore_SaveGetAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()
	record := ports.IdempotencyRecord{Kind: domain.KindExcursion, Key: "key-1", RequestHash: "hash-a", OrderID: uuid.NewString()}

	missing, err := store.Get(ctx, domain.KindExcursion, "key-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Save(ctx, record)
	require.NoError(t, err)

	again, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record.OrderID, again.OrderID)

	changed := record
	changed.RequestHash = "hash-b"
	existing, err := store.Save(ctx, changed)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "hash-a", existing.RequestHash)

	otherKind, err := store.Get(ctx, domain.KindYacht, "key-1")
	require.NoError(t, err)
	assert.Nil(t, otherKind)
}

func TestIdempotencyStore_PurgeOlderThan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()
	_, err := store.Save(ctx, ports.IdempotencyRecord{Kind: domain.KindTransfer, Key: "old", RequestHash: "h", OrderID: uuid.NewString()})
	require.NoError(t, err)
	require.NoError(t, db.Model(&idempotencyRecord{}).Where("key = ?", "old").Update("created_at", time.Now().Add(-48*time.Hour)).Error)
	_, err = store.Save(ctx, ports.IdempotencyRecord{Kind: domain.KindTransfer, Key: "fresh", RequestHash: "h", OrderID: uuid.NewString()})
	require.NoError(t, err)

	n, err := store.PurgeOlderThan(ctx, time.Now().Add(-ports.DefaultIdempotencyTTL))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	gone, err := store.Get(ctx, domain.KindTransfer, "old")
	require.NoError(t, err)
	assert.Nil(t, gone)
	kept, err := store.Get(ctx, domain.KindTransfer, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
