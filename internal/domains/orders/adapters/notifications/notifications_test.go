package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/workflows/orders"
)

type recordingMailer struct {
	mu       sync.Mutex
	messages []ports.Message
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg ports.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.err
}

func (m *recordingMailer) sent() []ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Message(nil), m.messages...)
}

func yachtEvent(t domain.EventType) domain.OrderEvent {
	order := &domain.Order{
		ID:          "0b5f3f6e-4c8a-4d8e-9a55-6f1d2f7e3c11",
		Kind:        domain.KindYacht,
		OrderNumber: "YT-1718000000000-42",
		Customer:    domain.Customer{FullName: "Ana Maria Lopez", Email: "ana@example.com", Phone: "8095551234"},
		Yacht: &domain.YachtDetails{
			YachtName:   "Sea Breeze",
			Destination: domain.DestinationSaona,
			Duration:    domain.DurationFullDay,
			TimeTrip:    "8:00 AM - 4:00 PM",
			IsAvailable: true,
		},
		TravelDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Pricing:       domain.Pricing{Total: decimal.RequireFromString("354"), Currency: "USD"},
		Status:        domain.StatusConfirmed,
		InternalNotes: "<b>VIP</b>",
	}
	return domain.NewOrderEvent(t, order, time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
}

func TestComposer_CustomerAndOperatorMessages(t *testing.T) {
	composer := NewComposer("EXPEDINAP", "ops@example.com")

	messages, err := composer.Compose(yachtEvent(domain.EventOrderConfirmed))
	require.NoError(t, err)
	require.Len(t, messages, 2)

	customer := messages[0]
	require.Equal(t, []string{"ana@example.com"}, customer.To)
	require.Equal(t, "YACHT CONFIRMED: YT-1718000000000-42 - SEA BREEZE", customer.Subject)
	require.Contains(t, customer.HTMLBody, "354.00 USD")
	require.Contains(t, customer.HTMLBody, "Hi Ana")
	require.NotContains(t, customer.HTMLBody, "8095551234")
	require.NotContains(t, customer.HTMLBody, "VIP")

	operator := messages[1]
	require.Equal(t, []string{"ops@example.com"}, operator.To)
	require.Equal(t, "ana@example.com", operator.ReplyTo)
	require.Equal(t, "YACHT UPDATED: YT-1718000000000-42 - Ana Maria Lopez", operator.Subject)
	require.Contains(t, operator.HTMLBody, "8095551234")
	require.Contains(t, operator.HTMLBody, "&lt;b&gt;VIP&lt;/b&gt;")
}

func TestComposer_SkipsOperatorWithoutAddress(t *testing.T) {
	messages, err := NewComposer("", "").Compose(yachtEvent(domain.EventOrderRequested))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "YACHT BOOKING REQUEST: YT-1718000000000-42 - SEA BREEZE", messages[0].Subject)
}

func TestComposer_UnknownEvent(t *testing.T) {
	_, err := NewComposer("", "ops@example.com").Compose(yachtEvent(domain.EventType("orders.order.archived")))
	require.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDispatcher_AttemptsEveryMessage(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	dispatcher := NewDispatcher(NewComposer("", "ops@example.com"), mailer)

	err := dispatcher.Deliver(context.Background(), yachtEvent(domain.EventOrderConfirmed))
	require.Error(t, err)
	require.Len(t, mailer.sent(), 2)
}

func TestInlineNotifier_SurvivesCancelledRequest(t *testing.T) {
	mailer := &recordingMailer{}
	notifier := NewInlineNotifier(NewDispatcher(NewComposer("", "ops@example.com"), mailer), WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	notifier.Notify(ctx, yachtEvent(domain.EventOrderConfirmed))
	cancel()
	notifier.Wait()

	require.Len(t, mailer.sent(), 2)
}

type fakeStarter struct {
	options  client.StartWorkflowOptions
	workflow interface{}
	args     []interface{}
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.options = options
	f.workflow = workflow
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return fakeRun{id: options.ID}, nil
}

type fakeRun struct {
	client.WorkflowRun
	id string
}

func (r fakeRun) GetID() string { return r.id }

func TestTemporalNotifier_StartsWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	notifier := NewTemporalNotifier(starter, nil)

	notifier.Notify(context.Background(), yachtEvent(domain.EventOrderConfirmed))

	require.Equal(t, orderworkflows.NotificationTaskQueue, starter.options.TaskQueue)
	require.Equal(t, enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE, starter.options.WorkflowIDReusePolicy)
	require.Equal(t, "order-notification-0b5f3f6e-4c8a-4d8e-9a55-6f1d2f7e3c11-orders.order.confirmed", starter.options.ID)
	require.Equal(t, orderworkflows.NotificationWorkflowName, starter.workflow)
	require.Len(t, starter.args, 1)
	input, ok := starter.args[0].(orderworkflows.NotificationWorkflowInput)
	require.True(t, ok)
	require.Equal(t, "YT-1718000000000-42", input.Event.Order.OrderNumber)
}

func TestTemporalNotifier_StartFailureIsSwallowed(t *testing.T) {
	starter := &fakeStarter{err: errors.New("temporal unavailable")}
	notifier := NewTemporalNotifier(starter, nil)

	require.NotPanics(t, func() {
		notifier.Notify(context.Background(), yachtEvent(domain.EventOrderRequested))
	})
}

func TestTemporalNotifier_DuplicateMilestoneIsIgnored(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-1")}
	notifier := NewTemporalNotifier(starter, nil)

	require.NotPanics(t, func() {
		notifier.Notify(context.Background(), yachtEvent(domain.EventOrderConfirmed))
	})
	require.True(t, starter.options.WorkflowExecutionErrorWhenAlreadyStarted)
}
