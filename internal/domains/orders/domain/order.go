package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

// Kind identifies the product an order books. Each kind is its own order collection.
type Kind string

const (
	KindExcursion Kind = "excursion"
	KindYacht     Kind = "yacht"
	KindTransfer  Kind = "transfer"
)

// Status enumerates order progression. Deleted marks a soft-deleted order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDeleted   Status = "deleted"
)

// Statuses lists every known status in reporting order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusPaid, StatusCompleted, StatusCancelled, StatusDeleted}

const (
	MaxInternalNotesLength = 1000
	DefaultHotelName       = "Pick-up to be coordinated / Airbnb"
	DefaultHotelNumber     = "N/A"
)

var (
	ErrInvalidKind         = errors.New("order kind is invalid")
	ErrInvalidStatus       = errors.New("order status is invalid")
	ErrInvalidTravelDate   = errors.New("travel date must be after today")
	ErrInvalidAdults       = errors.New("at least 1 adult is required")
	ErrInvalidChildren     = errors.New("children cannot be negative")
	ErrInvalidPassengers   = errors.New("at least 1 passenger is required")
	ErrInvalidDestination  = errors.New("destination is invalid")
	ErrInvalidDuration     = errors.New("duration is invalid")
	ErrInvalidTransferType = errors.New("transfer type is invalid")
	ErrInvalidArrivalTime  = errors.New("arrival time must be in HH:mm format")
	ErrMissingField        = errors.New("required field is missing")
	ErrNotesTooLong        = errors.New("internal notes cannot exceed 1000 characters")
	ErrPaymentReferenceSet = errors.New("payment reference is already assigned")
	ErrNotPurgeable        = errors.New("only orders with 'deleted' status can be permanently purged")
	ErrIllegalTransition   = errors.New("status transition is not allowed")
	ErrKindMismatch        = errors.New("operation does not apply to this order kind")
)

// Yacht destinations and durations accepted at intake.
const (
	DestinationSaona    = "Saona Island"
	DestinationCatalina = "Catalina Island"
	DestinationRiver    = "River Sunset"

	DurationFullDay    = "Full Day"
	DurationHalfDay    = "Half Day"
	DurationSunsetTrip = "Sunset Trip"
)

var transferTypes = map[string]bool{
	"airport-hotel": true,
	"hotel-airport": true,
	"round-trip":    true,
	"hotel-hotel":   true,
	"country":       true,
}

var arrivalTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):?([0-5]\d)$`)

// ExcursionDetails is the excursion-specific part of an order, captured at booking time.
type ExcursionDetails struct {
	ExcursionID   string
	ExcursionName string
	Location      string
	HotelName     string
	HotelNumber   string
	Adults        int
	Children      int
}

// YachtDetails is the yacht-specific part of an order.
type YachtDetails struct {
	YachtID     string
	YachtName   string
	Destination string
	Duration    string
	TimeTrip    string
	IsAvailable bool
}

// TransferDetails is the transfer-specific part of an order.
type TransferDetails struct {
	TransferType   string
	PickUpLocation string
	Destination    string
	NumPassengers  int
	FlightNumber   string
	ArrivalTime    string
}

// Order is the booking aggregate shared by the three order kinds.
type Order struct {
	ID               string
	Kind             Kind
	OrderNumber      string
	Customer         Customer
	Excursion        *ExcursionDetails
	Yacht            *YachtDetails
	Transfer         *TransferDetails
	TravelDate       time.Time
	Pricing          Pricing
	PaymentReference string
	Status           Status
	InternalNotes    string
}

// ParseKind validates a kind string.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindExcursion, KindYacht, KindTransfer:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// Prefix returns the order number prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindExcursion:
		return "EX"
	case KindYacht:
		return "YT"
	case KindTransfer:
		return "TR"
	default:
		return "OR"
	}
}

// ParseStatus validates and normalizes a status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether orders in this status contribute to revenue.
func (s Status) CountsAsRevenue() bool {
	return s == StatusConfirmed || s == StatusPaid || s == StatusCompleted
}

// NewOrderNumber builds `{PREFIX}-{unix millis}-{0..999}`.
func NewOrderNumber(kind Kind, now time.Time) string {
	return fmt.Sprintf("%s-%d-%d", kind.Prefix(), now.UnixMilli(), rand.IntN(1000))
}

// ValidateTravelDate rejects any date at or before the start of the current day.
// A date of exactly today's midnight is rejected as well.
func ValidateTravelDate(date, now time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: travel date", ErrMissingField)
	}
	y, m, d := now.Date()
	todayMidnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if !date.After(todayMidnight) {
		return ErrInvalidTravelDate
	}
	return nil
}

// NewExcursionOrder assembles a pending excursion order from validated inputs.
func NewExcursionOrder(customer Customer, details ExcursionDetails, travelDate time.Time, pricing Pricing) (*Order, error) {
	if strings.TrimSpace(details.HotelName) == "" {
		details.HotelName = DefaultHotelName
	}
	if strings.TrimSpace(details.HotelNumber) == "" {
		details.HotelNumber = DefaultHotelNumber
	}
	o := &Order{
		Kind:       KindExcursion,
		Customer:   customer,
		Excursion:  &details,
		TravelDate: travelDate,
		Pricing:    pricing,
		Status:     StatusPending,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewYachtOrder assembles a pending yacht order.
func NewYachtOrder(customer Customer, details YachtDetails, travelDate time.Time, pricing Pricing) (*Order, error) {
	details.IsAvailable = false
	o := &Order{
		Kind:       KindYacht,
		Customer:   customer,
		Yacht:      &details,
		TravelDate: travelDate,
		Pricing:    pricing,
		Status:     StatusPending,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// NewTransferOrder assembles a pending transfer order awaiting a quote.
func NewTransferOrder(customer Customer, details TransferDetails, pickUpDate time.Time) (*Order, error) {
	if details.NumPassengers == 0 {
		details.NumPassengers = 1
	}
	o := &Order{
		Kind:       KindTransfer,
		Customer:   customer,
		Transfer:   &details,
		TravelDate: pickUpDate,
		Pricing:    TransferPlaceholderPricing(),
		Status:     StatusPending,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if err := o.Customer.Validate(); err != nil {
		return err
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(o.InternalNotes) > MaxInternalNotesLength {
		return ErrNotesTooLong
	}
	if err := o.Pricing.Validate(); err != nil {
		return err
	}
	switch o.Kind {
	case KindExcursion:
		return o.validateExcursion()
	case KindYacht:
		return o.validateYacht()
	case KindTransfer:
		return o.validateTransfer()
	default:
		return ErrInvalidKind
	}
}

func (o *Order) validateExcursion() error {
	d := o.Excursion
	if d == nil || strings.TrimSpace(d.ExcursionID) == "" {
		return fmt.Errorf("%w: excursion", ErrMissingField)
	}
	if d.Adults < 1 {
		return ErrInvalidAdults
	}
	if d.Children < 0 {
		return ErrInvalidChildren
	}
	return nil
}

func (o *Order) validateYacht() error {
	d := o.Yacht
	if d == nil || strings.TrimSpace(d.YachtID) == "" {
		return fmt.Errorf("%w: yacht", ErrMissingField)
	}
	switch d.Destination {
	case DestinationSaona, DestinationCatalina, DestinationRiver:
	default:
		return ErrInvalidDestination
	}
	switch d.Duration {
	case DurationFullDay, DurationHalfDay, DurationSunsetTrip:
	default:
		return ErrInvalidDuration
	}
	return nil
}

func (o *Order) validateTransfer() error {
	d := o.Transfer
	if d == nil {
		return fmt.Errorf("%w: transfer", ErrMissingField)
	}
	if !transferTypes[strings.ToLower(strings.TrimSpace(d.TransferType))] {
		return ErrInvalidTransferType
	}
	if strings.TrimSpace(d.PickUpLocation) == "" {
		return fmt.Errorf("%w: pickUpLocation", ErrMissingField)
	}
	if strings.TrimSpace(d.Destination) == "" {
		return fmt.Errorf("%w: destination", ErrMissingField)
	}
	if d.NumPassengers < 1 {
		return ErrInvalidPassengers
	}
	if d.ArrivalTime != "" && !arrivalTimePattern.MatchString(d.ArrivalTime) {
		return ErrInvalidArrivalTime
	}
	return nil
}

// AssignPaymentReference records the gateway order id. It can only be set once.
func (o *Order) AssignPaymentReference(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("%w: payment reference", ErrMissingField)
	}
	if o.PaymentReference != "" && o.PaymentReference != ref {
		return ErrPaymentReferenceSet
	}
	o.PaymentReference = ref
	return nil
}

// ChangeStatus overwrites the status. When strict is set the transition graph is enforced.
func (o *Order) ChangeStatus(next Status, strict bool) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if strict && !CanTransition(o.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// CanTransition reports whether from -> to is part of the lifecycle graph.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusPaid || to == StatusCancelled || to == StatusDeleted
	case StatusConfirmed:
		return to == StatusPaid || to == StatusCompleted || to == StatusCancelled || to == StatusDeleted
	case StatusDeleted:
		return false
	default:
		return to == StatusDeleted
	}
}

// UpdateNotes replaces the admin notes.
func (o *Order) UpdateNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxInternalNotesLength {
		return ErrNotesTooLong
	}
	o.InternalNotes = notes
	return nil
}

// SetAvailability toggles the yacht availability gate.
func (o *Order) SetAvailability(available bool) error {
	if o.Kind != KindYacht || o.Yacht == nil {
		return ErrKindMismatch
	}
	o.Yacht.IsAvailable = available
	return nil
}

// SoftDelete marks the order deleted. Reapplying it is harmless.
func (o *Order) SoftDelete() {
	o.Status = StatusDeleted
}

// EnsurePurgeable guards the permanent removal.
func (o *Order) EnsurePurgeable() error {
	if o.Status != StatusDeleted {
		return ErrNotPurgeable
	}
	return nil
}

// ProductName is the denormalized display name of the booked product.
func (o *Order) ProductName() string {
	switch {
	case o.Excursion != nil:
		return o.Excursion.ExcursionName
	case o.Yacht != nil:
		return o.Yacht.YachtName
	case o.Transfer != nil:
		return o.Transfer.TransferType
	default:
		return ""
	}
}

// Clone returns a deep copy safe to hand across adapter boundaries.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Excursion != nil {
		d := *o.Excursion
		c.Excursion = &d
	}
	if o.Yacht != nil {
		d := *o.Yacht
		c.Yacht = &d
	}
	if o.Transfer != nil {
		d := *o.Transfer
		c.Transfer = &d
	}
	return &c
}
