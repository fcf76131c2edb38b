package ports

import (
	"context"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// Notifier delivers order milestones to customers and operators.
// Delivery is best effort and never affects the outcome of the calling use case.
type Notifier interface {
	Notify(ctx context.Context, event domain.OrderEvent)
}

// Message is a rendered email.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Mailer sends rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
