package mapper

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// ErrInvalidDate reports a date that is neither YYYY-MM-DD nor RFC 3339.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// Money renders a decimal amount as a JSON number with two decimals.
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// UnmarshalJSON accepts a number or a quoted number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// ExcursionOrderRequest is the public excursion booking form.
type ExcursionOrderRequest struct {
	ExcursionID string `json:"excursionId" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	TravelDate  string `json:"travelDate" binding:"required"`
	HotelName   string `json:"hotelName"`
	HotelNumber string `json:"hotelNumber"`
}

// YachtOrderRequest is the public yacht charter form.
type YachtOrderRequest struct {
	YachtID     string `json:"yachtId" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Duration    string `json:"duration" binding:"required"`
	TravelDate  string `json:"travelDate" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
}

// TransferOrderRequest is the public transfer quote form.
type TransferOrderRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	TransferType   string `json:"transferType" binding:"required"`
	PickUpLocation string `json:"pickUpLocation" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	NumPassengers  int    `json:"numPassengers"`
	PickUpDate     string `json:"pickUpDate" binding:"required"`
	FlightNumber   string `json:"flightNumber"`
	ArrivalTime    string `json:"arrivalTime"`
}

// ExcursionOrderUpdate is the admin patch accepted for excursion orders.
type ExcursionOrderUpdate struct {
	Status        *string `json:"status"`
	InternalNotes *string `json:"internalNotes"`
}

// YachtOrderUpdate is the admin patch accepted for yacht orders.
type YachtOrderUpdate struct {
	Status        *string `json:"status"`
	InternalNotes *string `json:"internalNotes"`
	IsAvailable   *bool   `json:"isAvailable"`
}

// TransferPricingUpdate sets the quote of a transfer.
type TransferPricingUpdate struct {
	TotalPrice *Money  `json:"totalPrice"`
	Currency   *string `json:"currency"`
}

// TransferOrderUpdate is the admin patch accepted for transfer orders.
type TransferOrderUpdate struct {
	Status        *string                `json:"status"`
	InternalNotes *string                `json:"internalNotes"`
	Pricing       *TransferPricingUpdate `json:"pricing"`
}

// Customer is the contact block of an order.
type Customer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Pax is the excursion party size.
type Pax struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Pricing is the price snapshot of an order.
type Pricing struct {
	AdultPriceSnap *Money `json:"adultPriceSnap,omitempty"`
	ChildPriceSnap *Money `json:"childPriceSnap,omitempty"`
	BasePrice      *Money `json:"basePrice,omitempty"`
	Subtotal       Money  `json:"subtotal"`
	Tax            Money  `json:"tax"`
	TotalPrice     Money  `json:"totalPrice"`
	Currency       string `json:"currency"`
}

// Order is the HTTP representation shared by the three order kinds.
// Kind-specific fields are omitted when they do not apply.
type Order struct {
	ID               string     `json:"id"`
	Kind             string     `json:"kind"`
	OrderNumber      string     `json:"orderNumber"`
	Customer         Customer   `json:"customer"`
	ExcursionID      string     `json:"excursionId,omitempty"`
	ExcursionName    string     `json:"excursionName,omitempty"`
	Location         string     `json:"location,omitempty"`
	HotelName        string     `json:"hotelName,omitempty"`
	HotelNumber      string     `json:"hotelNumber,omitempty"`
	Pax              *Pax       `json:"pax,omitempty"`
	YachtID          string     `json:"yachtId,omitempty"`
	YachtName        string     `json:"yachtName,omitempty"`
	Duration         string     `json:"duration,omitempty"`
	TimeTrip         string     `json:"timeTrip,omitempty"`
	IsAvailable      *bool      `json:"isAvailable,omitempty"`
	TransferType     string     `json:"transferType,omitempty"`
	PickUpLocation   string     `json:"pickUpLocation,omitempty"`
	Destination      string     `json:"destination,omitempty"`
	NumPassengers    int        `json:"numPassengers,omitempty"`
	FlightNumber     string     `json:"flightNumber,omitempty"`
	ArrivalTime      string     `json:"arrivalTime,omitempty"`
	TravelDate       *time.Time `json:"travelDate,omitempty"`
	PickUpDate       *time.Time `json:"pickUpDate,omitempty"`
	Pricing          Pricing    `json:"pricing"`
	PayPalOrderID    string     `json:"paypalOrderId,omitempty"`
	Status           string     `json:"status"`
	InternalNotes    string     `json:"internalNotes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Pagination describes a page of the admin listing.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Stats is the dashboard payload of one order kind.
type Stats struct {
	TotalOrders   int64            `json:"totalOrders"`
	Revenue       Money            `json:"revenue"`
	AverageTicket *Money           `json:"averageTicket,omitempty"`
	StatusCount   map[string]int64 `json:"statusCount"`
}

// CaptureResponse is returned after a successful capture.
type CaptureResponse struct {
	CaptureStatus string `json:"captureStatus"`
	Order         Order  `json:"order"`
}

// ParseDate accepts a calendar date, read as midnight in loc, or a full RFC 3339 timestamp.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func customerInput(fullName, email, phone string) ordertypes.CustomerInput {
	return ordertypes.CustomerInput{FullName: fullName, Email: email, Phone: phone}
}

// ToCreateExcursionInput maps the booking form into the application input.
func ToCreateExcursionInput(req ExcursionOrderRequest, idempotencyKey string, loc *time.Location) (ordertypes.CreateExcursionOrderInput, error) {
	date, err := ParseDate(req.TravelDate, loc)
	if err != nil {
		return ordertypes.CreateExcursionOrderInput{}, err
	}
	return ordertypes.CreateExcursionOrderInput{
		Customer:       customerInput(req.FullName, req.Email, req.Phone),
		ExcursionID:    req.ExcursionID,
		HotelName:      req.HotelName,
		HotelNumber:    req.HotelNumber,
		Adults:         req.Adults,
		Children:       req.Children,
		TravelDate:     date,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// ToCreateYachtInput maps the charter form into the application input.
func ToCreateYachtInput(req YachtOrderRequest, idempotencyKey string, loc *time.Location) (ordertypes.CreateYachtOrderInput, error) {
	date, err := ParseDate(req.TravelDate, loc)
	if err != nil {
		return ordertypes.CreateYachtOrderInput{}, err
	}
	return ordertypes.CreateYachtOrderInput{
		Customer:       customerInput(req.FullName, req.Email, req.Phone),
		YachtID:        req.YachtID,
		Destination:    req.Destination,
		Duration:       req.Duration,
		TravelDate:     date,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// ToCreateTransferInput maps the quote form into the application input.
// A missing passenger count defaults to one.
func ToCreateTransferInput(req TransferOrderRequest, idempotencyKey string, loc *time.Location) (ordertypes.CreateTransferOrderInput, error) {
	date, err := ParseDate(req.PickUpDate, loc)
	if err != nil {
		return ordertypes.CreateTransferOrderInput{}, err
	}
	passengers := req.NumPassengers
	if passengers == 0 {
		passengers = 1
	}
	return ordertypes.CreateTransferOrderInput{
		Customer:       customerInput(req.FullName, req.Email, req.Phone),
		TransferType:   req.TransferType,
		PickUpLocation: req.PickUpLocation,
		Destination:    req.Destination,
		NumPassengers:  passengers,
		FlightNumber:   req.FlightNumber,
		ArrivalTime:    req.ArrivalTime,
		PickUpDate:     date,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// ToUpdateExcursionInput maps an excursion patch.
func ToUpdateExcursionInput(id string, req ExcursionOrderUpdate) ordertypes.UpdateExcursionOrderInput {
	return ordertypes.UpdateExcursionOrderInput{ID: id, Status: req.Status, InternalNotes: req.InternalNotes}
}

// ToUpdateYachtInput maps a yacht patch.
func ToUpdateYachtInput(id string, req YachtOrderUpdate) ordertypes.UpdateYachtOrderInput {
	return ordertypes.UpdateYachtOrderInput{ID: id, Status: req.Status, InternalNotes: req.InternalNotes, IsAvailable: req.IsAvailable}
}

// ToUpdateTransferInput maps a transfer patch, including an optional quote.
func ToUpdateTransferInput(id string, req TransferOrderUpdate) ordertypes.UpdateTransferOrderInput {
	out := ordertypes.UpdateTransferOrderInput{ID: id, Status: req.Status, InternalNotes: req.InternalNotes}
	if req.Pricing != nil {
		quote := &ordertypes.TransferQuoteInput{Currency: req.Pricing.Currency}
		if req.Pricing.TotalPrice != nil {
			total := decimal.Decimal(*req.Pricing.TotalPrice)
			quote.TotalPrice = &total
		}
		out.Pricing = quote
	}
	return out
}

// FromProjection maps a stored order into its HTTP representation.
func FromProjection(p *ordertypes.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	o := p.Entity
	out := Order{
		ID:               o.ID,
		Kind:             string(o.Kind),
		OrderNumber:      o.OrderNumber,
		Customer:         Customer{FullName: o.Customer.FullName, Email: o.Customer.Email, Phone: o.Customer.Phone},
		Pricing:          fromPricing(o),
		PayPalOrderID:    o.PaymentReference,
		Status:           string(o.Status),
		InternalNotes:    o.InternalNotes,
		CreatedAt:        p.Metadata.CreatedAt,
		UpdatedAt:        p.Metadata.UpdatedAt,
	}
	date := o.TravelDate
	switch {
	case o.Excursion != nil:
		d := o.Excursion
		out.ExcursionID = d.ExcursionID
		out.ExcursionName = d.ExcursionName
		out.Location = d.Location
		out.HotelName = d.HotelName
		out.HotelNumber = d.HotelNumber
		out.Pax = &Pax{Adults: d.Adults, Children: d.Children}
		out.TravelDate = &date
	case o.Yacht != nil:
		d := o.Yacht
		available := d.IsAvailable
		out.YachtID = d.YachtID
		out.YachtName = d.YachtName
		out.Destination = d.Destination
		out.Duration = d.Duration
		out.TimeTrip = d.TimeTrip
		out.IsAvailable = &available
		out.TravelDate = &date
	case o.Transfer != nil:
		d := o.Transfer
		out.TransferType = d.TransferType
		out.PickUpLocation = d.PickUpLocation
		out.Destination = d.Destination
		out.NumPassengers = d.NumPassengers
		out.FlightNumber = d.FlightNumber
		out.ArrivalTime = d.ArrivalTime
		out.PickUpDate = &date
	}
	return out
}

func fromPricing(o *domain.Order) Pricing {
	p := o.Pricing
	out := Pricing{
		Subtotal:   Money(p.Subtotal),
		Tax:        Money(p.Tax),
		TotalPrice: Money(p.Total),
		Currency:   p.Currency,
	}
	switch o.Kind {
	case domain.KindExcursion:
		adult, child := Money(p.AdultUnitPrice), Money(p.ChildUnitPrice)
		out.AdultPriceSnap = &adult
		out.ChildPriceSnap = &child
	case domain.KindYacht:
		base := Money(p.BasePrice)
		out.BasePrice = &base
	}
	return out
}

// FromProjectionList maps a page of orders.
func FromProjectionList(items []*ordertypes.OrderProjection) []Order {
	out := make([]Order, 0, len(items))
	for _, item := range items {
		out = append(out, FromProjection(item))
	}
	return out
}

// FromPage builds the pagination block of a search result.
func FromPage(page *ordertypes.OrderPage) Pagination {
	if page == nil {
		return Pagination{}
	}
	return Pagination{
		Page:        page.Page,
		Limit:       page.Limit,
		TotalItems:  page.Total,
		TotalPages:  page.TotalPages,
		HasNextPage: page.Page < page.TotalPages,
		HasPrevPage: page.Page > 1,
	}
}

// FromStats maps the dashboard aggregate.
func FromStats(stats *domain.Stats) Stats {
	out := Stats{StatusCount: make(map[string]int64, len(domain.Statuses))}
	if stats == nil {
		for _, s := range domain.Statuses {
			out.StatusCount[string(s)] = 0
		}
		return out
	}
	out.TotalOrders = stats.TotalOrders
	out.Revenue = Money(stats.TotalRevenue)
	if stats.AverageTicket != nil {
		avg := Money(*stats.AverageTicket)
		out.AverageTicket = &avg
	}
	for _, s := range domain.Statuses {
		out.StatusCount[string(s)] = stats.ByStatus[s].Count
	}
	return out
}

// FromCaptureResult maps the capture outcome.
func FromCaptureResult(result *ordertypes.CaptureResult) CaptureResponse {
	if result == nil {
		return CaptureResponse{}
	}
	return CaptureResponse{CaptureStatus: result.CaptureStatus, Order: FromProjection(result.Order)}
}
