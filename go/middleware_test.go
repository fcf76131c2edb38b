package bookingserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_EvictsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 60)
	limiter.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		require.True(t, limiter.Allow(ip))
	}
	require.Equal(t, 3, limiter.Len())

	now = now.Add(30 * time.Second)
	require.True(t, limiter.Allow("10.0.0.1"))
	require.Equal(t, 3, limiter.Len())

	// 10.0.0.2 and .3 have been idle for a full refill period.
	now = now.Add(45 * time.Second)
	require.True(t, limiter.Allow("10.0.0.4"))
	require.Equal(t, 2, limiter.Len())
}

func TestIPRateLimiter_KeepsBudgetOfActiveClients(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(0.001, 1)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Allow("10.0.0.1"))
	now = now.Add(10 * time.Second)
	require.False(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.2"))
}
