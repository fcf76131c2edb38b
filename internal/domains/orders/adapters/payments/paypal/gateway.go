package paypal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	paypalclient "github.com/Apurer/go-gin-booking-api/internal/clients/http/paypal"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

var nonDigits = regexp.MustCompile(`\D`)

// PaymentClient is the subset of the PayPal client the gateway needs.
type PaymentClient interface {
	CreateOrder(ctx context.Context, req paypalclient.CreateOrderRequest) (*paypalclient.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypalclient.Order, error)
}

// Gateway implements the outbound payment port on top of PayPal Orders v2.
type Gateway struct {
	client    PaymentClient
	brandName string
}

// NewGateway wires a PayPal client into the payment port.
func NewGateway(client PaymentClient, brandName string) *Gateway {
	return &Gateway{client: client, brandName: strings.TrimSpace(brandName)}
}

// CreatePayment opens a capture-intent order prefilled with the customer contact.
func (g *Gateway) CreatePayment(ctx context.Context, req ports.PaymentRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("%w: paypal gateway not configured", ports.ErrGatewayFailure)
	}
	order, err := g.client.CreateOrder(ctx, ToCreateOrderRequest(req, g.brandName))
	if err != nil {
		return "", tagError(err)
	}
	if order == nil || strings.TrimSpace(order.ID) == "" {
		return "", fmt.Errorf("%w: paypal returned an order without id", ports.ErrGatewayFailure)
	}
	return order.ID, nil
}

// CapturePayment captures an approved order and reports the processor status.
func (g *Gateway) CapturePayment(ctx context.Context, gatewayOrderID string) (*ports.CaptureResult, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("%w: paypal gateway not configured", ports.ErrGatewayFailure)
	}
	order, err := g.client.CaptureOrder(ctx, gatewayOrderID)
	if err != nil {
		return nil, tagError(err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: paypal returned an empty capture", ports.ErrGatewayFailure)
	}
	id := order.ID
	if id == "" {
		id = gatewayOrderID
	}
	return &ports.CaptureResult{OrderID: id, Status: order.Status}, nil
}

// ToCreateOrderRequest maps a payment request onto the Orders v2 payload.
func ToCreateOrderRequest(req ports.PaymentRequest, brandName string) paypalclient.CreateOrderRequest {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	description := "Buying Excursion"
	if d := strings.TrimSpace(req.Description); d != "" {
		description = description + " - " + d
	}
	out := paypalclient.CreateOrderRequest{
		Intent: paypalclient.IntentCapture,
		Payer: &paypalclient.Payer{
			Name: &paypalclient.Name{
				GivenName: req.Customer.GivenName(),
				Surname:   req.Customer.FamilyName(),
			},
			EmailAddress: req.Customer.Email,
		},
		PurchaseUnits: []paypalclient.PurchaseUnit{{
			ReferenceID: req.Reference,
			CustomID:    req.Reference,
			Description: description,
			Amount: paypalclient.Money{
				CurrencyCode: currency,
				Value:        req.Amount.StringFixed(2),
			},
		}},
		ApplicationContext: &paypalclient.ApplicationContext{
			BrandName:               brandName,
			ShippingPreference:      paypalclient.ShippingPreferenceNoShipping,
			UserAction:              paypalclient.UserActionPayNow,
			PaymentMethodPreference: paypalclient.PaymentMethodImmediate,
		},
	}
	if digits := nonDigits.ReplaceAllString(req.Customer.Phone, ""); digits != "" {
		out.Payer.Phone = &paypalclient.Phone{
			PhoneType:   paypalclient.PhoneTypeMobile,
			PhoneNumber: paypalclient.PhoneNumber{NationalNumber: digits},
		}
	}
	return out
}

func tagError(err error) error {
	if paypalclient.IsUnprocessable(err) {
		return errors.Join(ports.ErrPaymentDeclined, err)
	}
	return errors.Join(ports.ErrGatewayFailure, err)
}

var _ ports.PaymentGateway = (*Gateway)(nil)
