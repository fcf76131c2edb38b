package paypal

// Order intents and application context values used by the checkout flow.
const (
	IntentCapture = "CAPTURE"

	ShippingPreferenceNoShipping = "NO_SHIPPING"
	UserActionPayNow             = "PAY_NOW"
	PaymentMethodImmediate       = "IMMEDIATE_PAYMENT_REQUIRED"
	PhoneTypeMobile              = "MOBILE"

	StatusCompleted = "COMPLETED"
)

// Money is an amount in a currency, value formatted with two decimals.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// PurchaseUnit is one purchasable item group of an order.
type PurchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	CustomID    string `json:"custom_id,omitempty"`
	Amount      Money  `json:"amount"`
}

// Name is the payer name split the way the Orders API expects it.
type Name struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

// PhoneNumber holds digits only.
type PhoneNumber struct {
	NationalNumber string `json:"national_number"`
}

// Phone is the payer contact phone.
type Phone struct {
	PhoneType   string      `json:"phone_type,omitempty"`
	PhoneNumber PhoneNumber `json:"phone_number"`
}

// Payer prefills the checkout form.
type Payer struct {
	Name         *Name  `json:"name,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
	Phone        *Phone `json:"phone,omitempty"`
}

// ApplicationContext customizes the payer experience.
type ApplicationContext struct {
	BrandName               string `json:"brand_name,omitempty"`
	ShippingPreference      string `json:"shipping_preference,omitempty"`
	UserAction              string `json:"user_action,omitempty"`
	PaymentMethodPreference string `json:"payment_method_preference,omitempty"`
}

// CreateOrderRequest is the body of POST /v2/checkout/orders.
type CreateOrderRequest struct {
	Intent             string              `json:"intent"`
	Payer              *Payer              `json:"payer,omitempty"`
	PurchaseUnits      []PurchaseUnit      `json:"purchase_units"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
}

// Link is a HATEOAS link returned by the API.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the subset of the order representation this service reads.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// ApproveURL returns the link the payer follows to approve the order.
func (o *Order) ApproveURL() string {
	if o == nil {
		return ""
	}
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

// ErrorDetail is one issue reported by the API.
type ErrorDetail struct {
	Field       string `json:"field,omitempty"`
	Issue       string `json:"issue"`
	Description string `json:"description,omitempty"`
}
