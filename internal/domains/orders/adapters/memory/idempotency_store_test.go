package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

func TestIdempotencyStore_ConflictAndScoping(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	record := ports.IdempotencyRecord{Kind: domain.KindYacht, Key: "k", RequestHash: "a", OrderID: "order-1"}

	_, err := store.Save(ctx, record)
	require.NoError(t, err)
	same, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, "order-1", same.OrderID)

	record.RequestHash = "b"
	existing, err := store.Save(ctx, record)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "a", existing.RequestHash)

	other, err := store.Get(ctx, domain.KindExcursion, "k")
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestIdempotencyStore_PurgeOlderThan(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	store.WithClock(func() time.Time { return now.Add(-48 * time.Hour) })
	_, err := store.Save(ctx, ports.IdempotencyRecord{Kind: domain.KindTransfer, Key: "old", RequestHash: "h", OrderID: "o1"})
	require.NoError(t, err)
	store.WithClock(func() time.Time { return now })
	_, err = store.Save(ctx, ports.IdempotencyRecord{Kind: domain.KindTransfer, Key: "fresh", RequestHash: "h", OrderID: "o2"})
	require.NoError(t, err)

	n, err := store.PurgeOlderThan(ctx, now.Add(-ports.DefaultIdempotencyTTL))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	gone, err := store.Get(ctx, domain.KindTransfer, "old")
	require.NoError(t, err)
	require.Nil(t, gone)
}
