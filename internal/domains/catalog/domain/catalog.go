package domain

import (
	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// Excursion is the read-only view of a bookable excursion.
type Excursion struct {
	ID            string
	Name          string
	Location      string
	OfferPriceUSD decimal.Decimal
	ChildPriceUSD decimal.Decimal
}

// PriceTable holds optional half/full day prices.
type PriceTable struct {
	HalfDay *decimal.Decimal
	FullDay *decimal.Decimal
}

// TimeAvailable lists the departure schedules of a yacht.
type TimeAvailable struct {
	HalfDay []string
	FullDay string
}

// RiverSunset is the flat-rate sunset trip.
type RiverSunset struct {
	Price    *decimal.Decimal
	TimeTrip string
}

// Yacht is the read-only view of a charter yacht.
type Yacht struct {
	ID            string
	Name          string
	SaonaPrice    *PriceTable
	CatalinaPrice *PriceTable
	TimeAvailable TimeAvailable
	RiverSunset   *RiverSunset
}

// Rates projects the yacht onto the pricing input used by orders.
func (y *Yacht) Rates() orderdomain.YachtRates {
	rates := orderdomain.YachtRates{
		Saona:        toRateTable(y.SaonaPrice),
		Catalina:     toRateTable(y.CatalinaPrice),
		FullDayTime:  y.TimeAvailable.FullDay,
		HalfDayTimes: append([]string(nil), y.TimeAvailable.HalfDay...),
	}
	if y.RiverSunset != nil {
		rates.RiverSunsetRate = y.RiverSunset.Price
		rates.RiverSunsetTime = y.RiverSunset.TimeTrip
	}
	return rates
}

func toRateTable(p *PriceTable) *orderdomain.RateTable {
	if p == nil {
		return nil
	}
	return &orderdomain.RateTable{HalfDay: p.HalfDay, FullDay: p.FullDay}
}
