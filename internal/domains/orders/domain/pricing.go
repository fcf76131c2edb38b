package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the only currency quoted at intake.
const DefaultCurrency = "USD"

// TaxRate is applied to the pre-tax amount of every priced order.
var TaxRate = decimal.RequireFromString("0.18")

var (
	ErrPriceUnavailable = errors.New("price not available for this destination/duration")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidCurrency  = errors.New("currency must be exactly 3 characters")
	ErrPricingMismatch  = errors.New("subtotal plus tax must equal total")
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Pricing is the snapshot taken when the order is created.
// Unit prices are never re-derived from the live catalog afterwards.
type Pricing struct {
	AdultUnitPrice decimal.Decimal
	ChildUnitPrice decimal.Decimal
	BasePrice      decimal.Decimal
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Currency       string
}

// RoundMoney rounds half away from zero to cents.
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// QuoteExcursion prices an excursion party. Children default to zero.
func QuoteExcursion(adultUnit, childUnit decimal.Decimal, adults, children int) (Pricing, error) {
	if adults < 1 {
		return Pricing{}, ErrInvalidAdults
	}
	if children < 0 {
		return Pricing{}, ErrInvalidChildren
	}
	if adultUnit.IsNegative() || childUnit.IsNegative() {
		return Pricing{}, ErrNegativePrice
	}
	adultsTotal := adultUnit.Mul(decimal.NewFromInt(int64(adults)))
	childrenTotal := childUnit.Mul(decimal.NewFromInt(int64(children)))
	subtotal := RoundMoney(adultsTotal.Add(childrenTotal))
	tax := RoundMoney(subtotal.Mul(TaxRate))
	return Pricing{
		AdultUnitPrice: adultUnit,
		ChildUnitPrice: childUnit,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          RoundMoney(subtotal.Add(tax)),
		Currency:       DefaultCurrency,
	}, nil
}

// QuoteYacht prices a yacht charter from its selected base price.
func QuoteYacht(basePrice decimal.Decimal) (Pricing, error) {
	if !basePrice.IsPositive() {
		return Pricing{}, ErrPriceUnavailable
	}
	tax := RoundMoney(basePrice.Mul(TaxRate))
	return Pricing{
		BasePrice: basePrice,
		Subtotal:  basePrice,
		Tax:       tax,
		Total:     RoundMoney(basePrice.Add(tax)),
		Currency:  DefaultCurrency,
	}, nil
}

// TransferPlaceholderPricing is the zero quote a transfer starts with.
func TransferPlaceholderPricing() Pricing {
	return Pricing{Currency: DefaultCurrency}
}

// Requote replaces the total of a quote-based order. Tax is folded into the quoted total.
func (p *Pricing) Requote(total *decimal.Decimal, currency *string) error {
	next := *p
	if total != nil {
		if total.IsNegative() {
			return ErrNegativePrice
		}
		t := RoundMoney(*total)
		next.Subtotal = t
		next.Tax = decimal.Zero
		next.Total = t
	}
	if currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*currency))
		if !currencyPattern.MatchString(c) {
			return ErrInvalidCurrency
		}
		next.Currency = c
	}
	*p = next
	return nil
}

// Validate checks the snapshot invariants.
func (p Pricing) Validate() error {
	if p.Total.IsNegative() {
		return ErrNegativePrice
	}
	if !currencyPattern.MatchString(p.Currency) {
		return ErrInvalidCurrency
	}
	if !RoundMoney(p.Subtotal.Add(p.Tax)).Equal(RoundMoney(p.Total)) {
		return ErrPricingMismatch
	}
	return nil
}
