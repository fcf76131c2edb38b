package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/workflows/orders"
)

// WorkflowStarter is the subset of the Temporal client used to start notification workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalNotifier hands events to the notification workflow so delivery survives restarts.
type TemporalNotifier struct {
	client    WorkflowStarter
	taskQueue string
	logger    *slog.Logger
}

// NewTemporalNotifier wires a Temporal client into the notifier port.
func NewTemporalNotifier(c WorkflowStarter, logger *slog.Logger) *TemporalNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TemporalNotifier{client: c, taskQueue: orderworkflows.NotificationTaskQueue, logger: logger}
}

// Notify starts the workflow without waiting for its result.
func (n *TemporalNotifier) Notify(ctx context.Context, event domain.OrderEvent) {
	if n == nil || n.client == nil {
		return
	}
	options := client.StartWorkflowOptions{
		ID:                                       notificationWorkflowID(event),
		TaskQueue:                                n.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := n.client.ExecuteWorkflow(ctx, options, orderworkflows.NotificationWorkflowName, orderworkflows.NotificationWorkflowInput{Event: event})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		n.logger.LogAttrs(ctx, slog.LevelInfo, "notification already sent for this milestone",
			slog.String("event", event.EventName()),
			slog.String("workflow_id", options.ID),
		)
		return
	}
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "failed to start notification workflow",
			slog.String("event", event.EventName()),
			slog.String("order_number", event.Order.OrderNumber),
			slog.String("error", err.Error()),
		)
		return
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "notification workflow started",
		slog.String("event", event.EventName()),
		slog.String("workflow_id", run.GetID()),
	)
}

// Deterministic per order milestone.
func notificationWorkflowID(event domain.OrderEvent) string {
	return fmt.Sprintf("order-notification-%s-%s", event.Order.ID, event.EventName())
}

var _ ports.Notifier = (*TemporalNotifier)(nil)
