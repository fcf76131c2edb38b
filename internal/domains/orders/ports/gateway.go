package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

var (
	// ErrPaymentDeclined is returned when the processor refuses the instrument.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrGatewayFailure covers transport, auth and any other processor error.
	ErrGatewayFailure = errors.New("payment gateway failure")
)

// CaptureStatusCompleted is the processor status of a settled capture.
const CaptureStatusCompleted = "COMPLETED"

// PaymentRequest describes the amount to authorize for an order.
type PaymentRequest struct {
	Customer    domain.Customer
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
}

// CaptureResult reports the processor outcome of a capture.
type CaptureResult struct {
	OrderID string
	Status  string
}

// PaymentGateway creates and captures processor-side orders.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (string, error)
	CapturePayment(ctx context.Context, gatewayOrderID string) (*CaptureResult, error)
}
