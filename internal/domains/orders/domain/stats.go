package domain

import "github.com/shopspring/decimal"

// StatusSummary is one row of a per-status rollup.
type StatusSummary struct {
	Status  Status
	Count   int64
	Revenue decimal.Decimal
}

// StatusCount is the reported count and revenue for a single status.
type StatusCount struct {
	Count   int64
	Revenue decimal.Decimal
}

// Stats is the dashboard view of one order kind.
type Stats struct {
	Kind          Kind
	ByStatus      map[Status]StatusCount
	TotalOrders   int64
	TotalRevenue  decimal.Decimal
	AverageTicket *decimal.Decimal
}

// AggregateStats folds per-status rows into the dashboard totals.
// Every known status is present even when it has no orders.
// Revenue only counts confirmed, paid and completed orders; deleted orders are excluded from the total count.
func AggregateStats(kind Kind, rows []StatusSummary) Stats {
	stats := Stats{
		Kind:         kind,
		ByStatus:     make(map[Status]StatusCount, len(Statuses)),
		TotalRevenue: decimal.Zero,
	}
	for _, s := range Statuses {
		stats.ByStatus[s] = StatusCount{Revenue: decimal.Zero}
	}
	var revenueOrders int64
	for _, row := range rows {
		if !row.Status.Valid() {
			continue
		}
		current := stats.ByStatus[row.Status]
		current.Count += row.Count
		current.Revenue = current.Revenue.Add(row.Revenue)
		stats.ByStatus[row.Status] = current
		if row.Status != StatusDeleted {
			stats.TotalOrders += row.Count
		}
		if row.Status.CountsAsRevenue() {
			stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue)
			revenueOrders += row.Count
		}
	}
	stats.TotalRevenue = RoundMoney(stats.TotalRevenue)
	if kind == KindTransfer {
		avg := decimal.Zero
		if revenueOrders > 0 {
			avg = RoundMoney(stats.TotalRevenue.Div(decimal.NewFromInt(revenueOrders)))
		}
		stats.AverageTicket = &avg
	}
	return stats
}
