package domain

import "time"

// EventType names a customer-visible order milestone.
type EventType string

const (
	EventOrderRequested  EventType = "orders.order.requested"
	EventPaymentCaptured EventType = "orders.order.payment_captured"
	EventOrderConfirmed  EventType = "orders.order.confirmed"
	EventQuoteConfirmed  EventType = "orders.order.quote_confirmed"
)

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderEvent carries a snapshot of the order at the moment a milestone was reached.
// It travels through workflow payloads, so it only holds plain data.
type OrderEvent struct {
	BaseEvent
	Type  EventType
	Order Order
}

// EventName returns the event type identifier.
func (e OrderEvent) EventName() string {
	return string(e.Type)
}

// NewOrderEvent snapshots the order for a notification.
func NewOrderEvent(t EventType, order *Order, at time.Time) OrderEvent {
	return OrderEvent{BaseEvent: BaseEvent{Timestamp: at}, Type: t, Order: *order.Clone()}
}
