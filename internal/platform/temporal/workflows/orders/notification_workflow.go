package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/platform/temporal/sequences"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "orders.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the worker delivering order emails.
	NotificationTaskQueue = "ORDER_NOTIFICATIONS"
)

// NotificationWorkflowInput carries the order event to deliver.
type NotificationWorkflowInput struct {
	Event   domain.OrderEvent
	TraceID string
}

// NotificationWorkflow delivers the emails of one order milestone.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	orderNumber := input.Event.Order.OrderNumber
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "orderNumber", orderNumber, "event", input.Event.EventName())...)
	if err := sequences.RunNotificationSequence(ctx, input.Event); err != nil {
		logger.Error("NotificationWorkflow failed", withTraceID(input.TraceID, "orderNumber", orderNumber, "error", err)...)
		return err
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "orderNumber", orderNumber)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
