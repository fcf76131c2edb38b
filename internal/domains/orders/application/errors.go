package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrNotFound signals the order or the referenced catalog entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a uniqueness violation in the store.
	ErrDuplicate = errors.New("duplicate order")
	// ErrPaymentDeclined signals the processor refused the payment instrument.
	ErrPaymentDeclined = errors.New("card declined")
	// ErrPaymentNotCompleted signals a capture that did not settle.
	ErrPaymentNotCompleted = errors.New("payment not completed")
	// ErrIdempotencyConflict signals an idempotency key reused with a different request.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")
	// ErrGateway signals an unexpected processor failure.
	ErrGateway = errors.New("payment gateway error")
)

// PaymentDeclinedMessage is shown to customers when the processor refuses the card.
const PaymentDeclinedMessage = "Your card was declined. Please try another payment method."

// ErrorKind is the closed classification transports map to responses.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindNotFound
	KindDuplicate
	KindPaymentDeclined
	KindPaymentNotCompleted
	KindIdempotencyConflict
)

// Classify reduces any error returned by the service to its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrPaymentDeclined):
		return KindPaymentDeclined
	case errors.Is(err, ErrPaymentNotCompleted):
		return KindPaymentNotCompleted
	case errors.Is(err, ErrIdempotencyConflict):
		return KindIdempotencyConflict
	default:
		return KindInternal
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrPaymentDeclined),
		errors.Is(err, ErrPaymentNotCompleted),
		errors.Is(err, ErrIdempotencyConflict),
		errors.Is(err, ErrGateway):
		return err
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, catalogports.ErrExcursionNotFound),
		errors.Is(err, catalogports.ErrYachtNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrDuplicateOrderNumber),
		errors.Is(err, ports.ErrDuplicatePaymentRef):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return fmt.Errorf("%w: %w", ErrIdempotencyConflict, err)
	case errors.Is(err, ports.ErrPaymentDeclined):
		return fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
	case errors.Is(err, ports.ErrGatewayFailure):
		return fmt.Errorf("%w: %w", ErrGateway, err)
	case isDomainValidation(err):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func isDomainValidation(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidKind,
		domain.ErrInvalidStatus,
		domain.ErrInvalidTravelDate,
		domain.ErrInvalidAdults,
		domain.ErrInvalidChildren,
		domain.ErrInvalidPassengers,
		domain.ErrInvalidDestination,
		domain.ErrInvalidDuration,
		domain.ErrInvalidTransferType,
		domain.ErrInvalidArrivalTime,
		domain.ErrMissingField,
		domain.ErrNotesTooLong,
		domain.ErrPaymentReferenceSet,
		domain.ErrNotPurgeable,
		domain.ErrIllegalTransition,
		domain.ErrKindMismatch,
		domain.ErrPriceUnavailable,
		domain.ErrNegativePrice,
		domain.ErrInvalidCurrency,
		domain.ErrPricingMismatch,
		domain.ErrInvalidFullName,
		domain.ErrInvalidEmail,
		domain.ErrInvalidPhone,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
