package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validCustomer(t *testing.T) Customer {
	t.Helper()
	c, err := NewCustomer("  Ana Maria Lopez ", "Ana.Lopez@Example.com", "18095551234")
	require.NoError(t, err)
	return c
}

func TestNewCustomer(t *testing.T) {
	c := validCustomer(t)
	require.Equal(t, "Ana Maria Lopez", c.FullName)
	require.Equal(t, "ana.lopez@example.com", c.Email)
	require.Equal(t, "Ana", c.GivenName())
	require.Equal(t, "Maria Lopez", c.FamilyName())

	single := Customer{FullName: "Cher"}
	require.Equal(t, " ", single.FamilyName())

	_, err := NewCustomer("", "a@b.com", "18095551234")
	require.ErrorIs(t, err, ErrInvalidFullName)
	_, err = NewCustomer("Ana", "not-an-email", "18095551234")
	require.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewCustomer("Ana", "a@b.com", "+1 809 555")
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestValidateTravelDate_MidnightBoundary(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, loc)

	require.ErrorIs(t, ValidateTravelDate(time.Date(2025, 6, 10, 0, 0, 0, 0, loc), now), ErrInvalidTravelDate)
	require.ErrorIs(t, ValidateTravelDate(time.Date(2025, 6, 9, 12, 0, 0, 0, loc), now), ErrInvalidTravelDate)
	require.NoError(t, ValidateTravelDate(time.Date(2025, 6, 11, 0, 0, 0, 0, loc), now))
	require.NoError(t, ValidateTravelDate(time.Date(2025, 6, 10, 0, 0, 1, 0, loc), now))
	require.ErrorIs(t, ValidateTravelDate(time.Time{}, now), ErrMissingField)
}

func TestNewOrderNumber(t *testing.T) {
	now := time.UnixMilli(1718000000000)
	require.Regexp(t, regexp.MustCompile(`^EX-1718000000000-\d{1,3}$`), NewOrderNumber(KindExcursion, now))
	require.Regexp(t, regexp.MustCompile(`^YT-`), NewOrderNumber(KindYacht, now))
	require.Regexp(t, regexp.MustCompile(`^TR-`), NewOrderNumber(KindTransfer, now))
}

func TestNewExcursionOrder_Defaults(t *testing.T) {
	pricing, err := QuoteExcursion(dec(t, "50"), dec(t, "20"), 2, 1)
	require.NoError(t, err)
	order, err := NewExcursionOrder(validCustomer(t), ExcursionDetails{ExcursionID: "exc-1", Adults: 2, Children: 1}, time.Now().Add(48*time.Hour), pricing)
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, DefaultHotelName, order.Excursion.HotelName)
	require.Equal(t, DefaultHotelNumber, order.Excursion.HotelNumber)
}

func TestNewTransferOrder_Validation(t *testing.T) {
	details := TransferDetails{TransferType: "airport-hotel", PickUpLocation: "PUJ", Destination: "Hotel", ArrivalTime: "14:30"}
	order, err := NewTransferOrder(validCustomer(t), details, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, order.Transfer.NumPassengers)
	require.True(t, order.Pricing.Total.IsZero())

	details.TransferType = "teleport"
	_, err = NewTransferOrder(validCustomer(t), details, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransferType)

	details.TransferType = "round-trip"
	details.ArrivalTime = "25:00"
	_, err = NewTransferOrder(validCustomer(t), details, time.Now())
	require.ErrorIs(t, err, ErrInvalidArrivalTime)
}

func TestOrder_PaymentReferenceIsWriteOnce(t *testing.T) {
	o := &Order{}
	require.NoError(t, o.AssignPaymentReference("PAY-1"))
	require.NoError(t, o.AssignPaymentReference("PAY-1"))
	require.ErrorIs(t, o.AssignPaymentReference("PAY-2"), ErrPaymentReferenceSet)
}

func TestOrder_ChangeStatus(t *testing.T) {
	o := &Order{Status: StatusCompleted}
	require.NoError(t, o.ChangeStatus(StatusPending, false))
	require.Equal(t, StatusPending, o.Status)

	o.Status = StatusCompleted
	require.ErrorIs(t, o.ChangeStatus(StatusPending, true), ErrIllegalTransition)
	require.NoError(t, o.ChangeStatus(StatusDeleted, true))
	require.ErrorIs(t, o.ChangeStatus("archived", false), ErrInvalidStatus)
}

func TestOrder_SoftDeleteAndPurgeGuard(t *testing.T) {
	o := &Order{Status: StatusPaid}
	require.ErrorIs(t, o.EnsurePurgeable(), ErrNotPurgeable)
	o.SoftDelete()
	o.SoftDelete()
	require.Equal(t, StatusDeleted, o.Status)
	require.NoError(t, o.EnsurePurgeable())
}

func TestOrder_CloneIsDeep(t *testing.T) {
	o := &Order{Kind: KindYacht, Yacht: &YachtDetails{YachtID: "y1"}}
	c := o.Clone()
	c.Yacht.IsAvailable = true
	require.False(t, o.Yacht.IsAvailable)
	require.ErrorIs(t, (&Order{Kind: KindExcursion}).SetAvailability(true), ErrKindMismatch)
}
