package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAggregateStats_Empty(t *testing.T) {
	stats := AggregateStats(KindExcursion, nil)
	require.Len(t, stats.ByStatus, 6)
	for _, s := range Statuses {
		require.Zero(t, stats.ByStatus[s].Count)
		require.True(t, stats.ByStatus[s].Revenue.IsZero())
	}
	require.Zero(t, stats.TotalOrders)
	require.True(t, stats.TotalRevenue.IsZero())
	require.Nil(t, stats.AverageTicket)
}

func TestAggregateStats_RevenueAndDeleted(t *testing.T) {
	rows := []StatusSummary{
		{Status: StatusPending, Count: 3, Revenue: decimal.RequireFromString("300")},
		{Status: StatusPaid, Count: 2, Revenue: decimal.RequireFromString("283.20")},
		{Status: StatusCompleted, Count: 1, Revenue: decimal.RequireFromString("100")},
		{Status: StatusDeleted, Count: 4, Revenue: decimal.RequireFromString("999")},
	}
	stats := AggregateStats(KindTransfer, rows)
	require.EqualValues(t, 6, stats.TotalOrders)
	require.Equal(t, "383.20", stats.TotalRevenue.StringFixed(2))
	require.EqualValues(t, 4, stats.ByStatus[StatusDeleted].Count)
	require.NotNil(t, stats.AverageTicket)
	require.Equal(t, "127.73", stats.AverageTicket.StringFixed(2))
}

func TestAggregateStats_TransferWithoutRevenue(t *testing.T) {
	stats := AggregateStats(KindTransfer, []StatusSummary{{Status: StatusPending, Count: 2, Revenue: decimal.Zero}})
	require.NotNil(t, stats.AverageTicket)
	require.True(t, stats.AverageTicket.IsZero())
}
