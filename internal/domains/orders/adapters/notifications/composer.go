package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

// ErrUnknownEvent is returned when an event has no email layout.
var ErrUnknownEvent = errors.New("no email layout for event")

var orderTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>{{.Headline}}</h2>
  <p>{{.Intro}}</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Order</strong></td><td>{{.Order.OrderNumber}}</td></tr>
    <tr><td><strong>Service</strong></td><td>{{.Product}}</td></tr>
    <tr><td><strong>Date</strong></td><td>{{.TravelDate}}</td></tr>
    <tr><td><strong>Status</strong></td><td>{{.Order.Status}}</td></tr>
    <tr><td><strong>Customer</strong></td><td>{{.Order.Customer.FullName}}</td></tr>
    {{- if .Operator}}
    <tr><td><strong>Email</strong></td><td>{{.Order.Customer.Email}}</td></tr>
    <tr><td><strong>Phone</strong></td><td>{{.Order.Customer.Phone}}</td></tr>
    {{- end}}
    {{- with .Order.Excursion}}
    <tr><td><strong>Hotel</strong></td><td>{{.HotelName}} ({{.HotelNumber}})</td></tr>
    <tr><td><strong>Guests</strong></td><td>{{.Adults}} adults, {{.Children}} children</td></tr>
    {{- end}}
    {{- with .Order.Yacht}}
    <tr><td><strong>Destination</strong></td><td>{{.Destination}} ({{.Duration}})</td></tr>
    <tr><td><strong>Schedule</strong></td><td>{{.TimeTrip}}</td></tr>
    {{- end}}
    {{- with .Order.Transfer}}
    <tr><td><strong>Route</strong></td><td>{{.PickUpLocation}} to {{.Destination}}</td></tr>
    <tr><td><strong>Passengers</strong></td><td>{{.NumPassengers}}</td></tr>
    {{- if .FlightNumber}}
    <tr><td><strong>Flight</strong></td><td>{{.FlightNumber}} at {{.ArrivalTime}}</td></tr>
    {{- end}}
    {{- end}}
    <tr><td><strong>Total</strong></td><td>{{.Total}} {{.Order.Pricing.Currency}}</td></tr>
  </table>
  {{- if and .Operator .Order.InternalNotes}}
  <p><strong>Internal notes:</strong> {{.Order.InternalNotes}}</p>
  {{- end}}
  <p>{{.BrandName}}</p>
</body>
</html>
`))

type templateData struct {
	Headline   string
	Intro      string
	Product    string
	TravelDate string
	Total      string
	BrandName  string
	Operator   bool
	Order      domain.Order
}

// Composer renders the customer and operator emails of an order event.
type Composer struct {
	brandName string
	operators []string
	replyTo   string
}

// NewComposer builds a composer. Operator mail is skipped when operatorAddress is empty.
func NewComposer(brandName, operatorAddress string) *Composer {
	c := &Composer{brandName: strings.TrimSpace(brandName)}
	if c.brandName == "" {
		c.brandName = "EXPEDINAP"
	}
	if addr := strings.TrimSpace(operatorAddress); addr != "" {
		c.operators = []string{addr}
		c.replyTo = addr
	}
	return c
}

// Compose returns the messages to send for an event, customer first.
func (c *Composer) Compose(event domain.OrderEvent) ([]ports.Message, error) {
	customerSubject, operatorSubject, headline, ok := subjects(event)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type)
	}
	order := event.Order
	base := templateData{
		Product:   order.ProductName(),
		Total:     order.Pricing.Total.StringFixed(2),
		BrandName: c.brandName,
		Order:     order,
	}
	if !order.TravelDate.IsZero() {
		base.TravelDate = order.TravelDate.Format("Monday, January 2, 2006")
	}

	var messages []ports.Message
	if to := strings.TrimSpace(order.Customer.Email); to != "" {
		data := base
		data.Headline = headline
		data.Intro = fmt.Sprintf("Hi %s, thank you for booking with %s.", order.Customer.GivenName(), c.brandName)
		body, err := render(data)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ports.Message{To: []string{to}, ReplyTo: c.replyTo, Subject: customerSubject, HTMLBody: body})
	}
	if len(c.operators) > 0 {
		data := base
		data.Operator = true
		data.Headline = operatorSubject
		data.Intro = fmt.Sprintf("Order %s changed: %s.", order.OrderNumber, strings.TrimPrefix(string(event.Type), "orders.order."))
		body, err := render(data)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ports.Message{To: c.operators, ReplyTo: order.Customer.Email, Subject: operatorSubject, HTMLBody: body})
	}
	return messages, nil
}

func subjects(event domain.OrderEvent) (customer, operator, headline string, ok bool) {
	o := event.Order
	product := strings.ToUpper(o.ProductName())
	switch event.Type {
	case domain.EventOrderRequested:
		if o.Kind == domain.KindTransfer {
			return fmt.Sprintf("TRANSFER REQUEST: %s - %s", o.OrderNumber, product),
				fmt.Sprintf("NEW ORDER: %s from %s", o.OrderNumber, o.Customer.FullName),
				"We received your transfer request", true
		}
		return fmt.Sprintf("%s BOOKING REQUEST: %s - %s", kindLabel(o.Kind), o.OrderNumber, product),
			fmt.Sprintf("NEW %s REQUEST: %s - %s", kindLabel(o.Kind), o.OrderNumber, o.Customer.FullName),
			"We received your booking request", true
	case domain.EventPaymentCaptured:
		return fmt.Sprintf("PAYMENT RECEIVED: %s - %s", o.OrderNumber, product),
			fmt.Sprintf("PAID ORDER: %s - %s", o.OrderNumber, o.Customer.FullName),
			"Your payment was received", true
	case domain.EventOrderConfirmed:
		return fmt.Sprintf("%s CONFIRMED: %s - %s", kindLabel(o.Kind), o.OrderNumber, product),
			fmt.Sprintf("%s UPDATED: %s - %s", kindLabel(o.Kind), o.OrderNumber, o.Customer.FullName),
			"Your booking is confirmed", true
	case domain.EventQuoteConfirmed:
		return fmt.Sprintf("TRANSFER CONFIRMED: %s - %s", o.OrderNumber, product),
			fmt.Sprintf("TRANSFER UPDATED/CONFIRMED: %s", o.OrderNumber),
			"Your transfer quote is ready", true
	}
	return "", "", "", false
}

func kindLabel(kind domain.Kind) string {
	return strings.ToUpper(string(kind))
}

func render(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
