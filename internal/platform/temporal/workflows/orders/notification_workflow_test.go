package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/activities/orders"
)

type flakyDeliverer struct {
	failures int
	calls    int
	last     domain.OrderEvent
}

func (d *flakyDeliverer) Deliver(_ context.Context, event domain.OrderEvent) error {
	d.calls++
	d.last = event
	if d.calls <= d.failures {
		return errors.New("smtp: connection reset")
	}
	return nil
}

func newEnv(t *testing.T, deliverer orderactivities.Deliverer) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(NotificationWorkflow, workflow.RegisterOptions{Name: NotificationWorkflowName})
	acts := orderactivities.NewActivities(deliverer)
	env.RegisterActivityWithOptions(acts.SendNotification, activity.RegisterOptions{Name: orderactivities.SendNotificationActivityName})
	return env
}

func sampleEvent() domain.OrderEvent {
	order := &domain.Order{ID: "0b5f3f6e-4c8a-4d8e-9a55-6f1d2f7e3c11", Kind: domain.KindYacht, OrderNumber: "YT-1718000000000-42", Status: domain.StatusConfirmed}
	return domain.NewOrderEvent(domain.EventOrderConfirmed, order, time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
}

func TestNotificationWorkflow_Delivers(t *testing.T) {
	deliverer := &flakyDeliverer{}
	env := newEnv(t, deliverer)

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{Event: sampleEvent(), TraceID: "abc"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 1, deliverer.calls)
	require.Equal(t, "YT-1718000000000-42", deliverer.last.Order.OrderNumber)
	require.Equal(t, domain.EventOrderConfirmed, deliverer.last.Type)
}

func TestNotificationWorkflow_RetriesTransientFailures(t *testing.T) {
	deliverer := &flakyDeliverer{failures: 2}
	env := newEnv(t, deliverer)

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{Event: sampleEvent()})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 3, deliverer.calls)
}

func TestNotificationWorkflow_GivesUpAfterMaxAttempts(t *testing.T) {
	deliverer := &flakyDeliverer{failures: 100}
	env := newEnv(t, deliverer)

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{Event: sampleEvent()})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 5, deliverer.calls)
}
