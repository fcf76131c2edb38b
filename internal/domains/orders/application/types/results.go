package types

import (
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/shared/projection"
)

// OrderProjection transports an order together with its persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// OrderPage is one page of a search.
type OrderPage struct {
	Items      []*OrderProjection
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CaptureResult is the outcome of a completed capture.
type CaptureResult struct {
	Order         *OrderProjection
	CaptureStatus string
}
