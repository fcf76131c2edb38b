package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/activities/orders"
)

// RunNotificationSequence delivers the emails of an order event with retries.
func RunNotificationSequence(ctx workflow.Context, event domain.OrderEvent) error {
	logger := workflow.GetLogger(ctx)
	orderNumber := event.Order.OrderNumber
	logger.Info("notification sequence started", "orderNumber", orderNumber, "event", event.EventName())
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, orderactivities.SendNotificationActivityName, event).Get(ctx, nil); err != nil {
		logger.Error("notification sequence failed", "orderNumber", orderNumber, "error", err)
		return err
	}
	logger.Info("notification sequence completed", "orderNumber", orderNumber)
	return nil
}
