package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// SendNotificationActivityName renders and sends the emails of an order event.
const SendNotificationActivityName = "orders.activities.SendNotification"

// Deliverer sends the messages of one order event.
type Deliverer interface {
	Deliver(ctx context.Context, event domain.OrderEvent) error
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	deliverer Deliverer
}

// NewActivities wires the email dispatcher into the Temporal activities bundle.
func NewActivities(deliverer Deliverer) *Activities {
	return &Activities{deliverer: deliverer}
}

// SendNotification delivers an order event. A completed delivery is not repeated on retry.
func (a *Activities) SendNotification(ctx context.Context, event domain.OrderEvent) error {
	logger := activity.GetLogger(ctx)
	orderNumber := event.Order.OrderNumber
	if a == nil || a.deliverer == nil {
		logger.Error("notification activity not initialized", "orderNumber", orderNumber)
		return errors.New("notification activity not initialized")
	}

	var hb deliveryHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("SendNotification already completed in prior attempt; skipping", "orderNumber", orderNumber)
		return nil
	}

	logger.Info("SendNotification activity started", "orderNumber", orderNumber, "event", event.EventName())
	if err := a.deliverer.Deliver(ctx, event); err != nil {
		logger.Error("SendNotification failed", "orderNumber", orderNumber, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, deliveryHeartbeat{Completed: true})
	logger.Info("SendNotification activity completed", "orderNumber", orderNumber)
	return nil
}

type deliveryHeartbeat struct {
	Completed bool
}
