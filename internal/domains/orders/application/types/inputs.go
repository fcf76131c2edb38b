package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// CustomerInput carries the contact fields shared by every intake form.
type CustomerInput struct {
	FullName string
	Email    string
	Phone    string
}

// CreateExcursionOrderInput is the excursion booking request.
type CreateExcursionOrderInput struct {
	Customer       CustomerInput
	ExcursionID    string
	HotelName      string
	HotelNumber    string
	Adults         int
	Children       int
	TravelDate     time.Time
	IdempotencyKey string
}

// CreateYachtOrderInput is the yacht charter request.
type CreateYachtOrderInput struct {
	Customer       CustomerInput
	YachtID        string
	Destination    string
	Duration       string
	TravelDate     time.Time
	IdempotencyKey string
}

// CreateTransferOrderInput is the transfer quote request.
type CreateTransferOrderInput struct {
	Customer       CustomerInput
	TransferType   string
	PickUpLocation string
	Destination    string
	NumPassengers  int
	FlightNumber   string
	ArrivalTime    string
	PickUpDate     time.Time
	IdempotencyKey string
}

// UpdateExcursionOrderInput lists the admin-editable excursion fields.
type UpdateExcursionOrderInput struct {
	ID            string
	Status        *string
	InternalNotes *string
}

// UpdateYachtOrderInput lists the admin-editable yacht fields.
type UpdateYachtOrderInput struct {
	ID            string
	Status        *string
	InternalNotes *string
	IsAvailable   *bool
}

// TransferQuoteInput sets the quoted price of a transfer.
type TransferQuoteInput struct {
	TotalPrice *decimal.Decimal
	Currency   *string
}

// UpdateTransferOrderInput lists the admin-editable transfer fields.
type UpdateTransferOrderInput struct {
	ID            string
	Status        *string
	InternalNotes *string
	Pricing       *TransferQuoteInput
}

// OrderIdentifier addresses one order within its kind.
type OrderIdentifier struct {
	Kind domain.Kind
	ID   string
}

// SearchOrdersInput filters the admin listing. Zero page/limit fall back to defaults.
type SearchOrdersInput struct {
	Kind   domain.Kind
	Query  string
	Status string
	Page   int
	Limit  int
}

// CapturePaymentInput identifies the processor order to capture.
type CapturePaymentInput struct {
	GatewayOrderID string
}
