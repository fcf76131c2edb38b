package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable holds the half/full day prices of one island destination.
type RateTable struct {
	HalfDay *decimal.Decimal
	FullDay *decimal.Decimal
}

// YachtRates is the subset of a yacht catalog entry needed to price a charter.
type YachtRates struct {
	Saona           *RateTable
	Catalina        *RateTable
	FullDayTime     string
	HalfDayTimes    []string
	RiverSunsetRate *decimal.Decimal
	RiverSunsetTime string
}

// YachtRate is the resolved base price and the schedule shown to the customer.
type YachtRate struct {
	BasePrice decimal.Decimal
	TimeTrip  string
}

// SelectYachtRate resolves the base price for a destination/duration pair.
// River Sunset ignores the duration. A missing or zero price is ErrPriceUnavailable.
func SelectYachtRate(rates YachtRates, destination, duration string) (YachtRate, error) {
	var (
		price    *decimal.Decimal
		timeTrip string
	)
	switch destination {
	case DestinationSaona, DestinationCatalina:
		table := rates.Saona
		if destination == DestinationCatalina {
			table = rates.Catalina
		}
		if table == nil {
			return YachtRate{}, ErrPriceUnavailable
		}
		if duration == DurationFullDay {
			price = table.FullDay
			timeTrip = rates.FullDayTime
		} else {
			price = table.HalfDay
			timeTrip = strings.Join(rates.HalfDayTimes, " / ")
		}
	case DestinationRiver:
		price = rates.RiverSunsetRate
		timeTrip = rates.RiverSunsetTime
	default:
		return YachtRate{}, ErrPriceUnavailable
	}
	if price == nil || !price.IsPositive() {
		return YachtRate{}, ErrPriceUnavailable
	}
	return YachtRate{BasePrice: *price, TimeTrip: timeTrip}, nil
}
