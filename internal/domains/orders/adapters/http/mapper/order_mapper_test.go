package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/shared/projection"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("AST", -4*60*60)

	got, err := ParseDate("2025-06-11", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, loc), got)

	got, err = ParseDate("2025-06-11T09:30:00Z", loc)
	require.NoError(t, err)
	require.Equal(t, 9, got.Hour())

	_, err = ParseDate("11/06/2025", loc)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestToCreateTransferInput_DefaultsPassengers(t *testing.T) {
	input, err := ToCreateTransferInput(TransferOrderRequest{TransferType: "airport-hotel", PickUpDate: "2025-06-11"}, "key-1", time.UTC)
	require.NoError(t, err)
	require.Equal(t, 1, input.NumPassengers)
	require.Equal(t, "key-1", input.IdempotencyKey)
}

func TestToUpdateTransferInput_Quote(t *testing.T) {
	var req TransferOrderUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"status":"confirmed","pricing":{"totalPrice":85.5,"currency":"usd"}}`), &req))

	input := ToUpdateTransferInput("id-1", req)
	require.Equal(t, "confirmed", *input.Status)
	require.NotNil(t, input.Pricing)
	require.True(t, decimal.RequireFromString("85.5").Equal(*input.Pricing.TotalPrice))
	require.Equal(t, "usd", *input.Pricing.Currency)
}

func TestFromProjection_ExcursionShape(t *testing.T) {
	created := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	p := &ordertypes.OrderProjection{
		Entity: &domain.Order{
			ID:          "id-1",
			Kind:        domain.KindExcursion,
			OrderNumber: "EX-1-1",
			Customer:    domain.Customer{FullName: "Cher", Email: "cher@example.com", Phone: "123"},
			Excursion:   &domain.ExcursionDetails{ExcursionID: "ex-1", ExcursionName: "Saona Day Trip", Adults: 2, Children: 1},
			TravelDate:  time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
			Pricing: domain.Pricing{
				AdultUnitPrice: decimal.RequireFromString("50"),
				ChildUnitPrice: decimal.RequireFromString("20"),
				Subtotal:       decimal.RequireFromString("120"),
				Tax:            decimal.RequireFromString("21.6"),
				Total:          decimal.RequireFromString("141.6"),
				Currency:       "USD",
			},
			Status: domain.StatusPending,
		},
		Metadata: projection.Metadata{CreatedAt: created, UpdatedAt: created},
	}

	body, err := json.Marshal(FromProjection(p))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Equal(t, "EX-1-1", decoded["orderNumber"])
	require.Equal(t, map[string]any{"adults": float64(2), "children": float64(1)}, decoded["pax"])
	require.NotContains(t, decoded, "yachtId")
	require.NotContains(t, decoded, "pickUpDate")
	require.Contains(t, string(body), `"totalPrice":141.60`)
	require.Contains(t, string(body), `"adultPriceSnap":50.00`)
}

func TestFromStats_AllStatusesPresent(t *testing.T) {
	stats := domain.AggregateStats(domain.KindYacht, nil)
	out := FromStats(&stats)
	require.Len(t, out.StatusCount, 6)
	require.Nil(t, out.AverageTicket)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(body), `"revenue":0.00`)
}

func TestFromPage(t *testing.T) {
	p := FromPage(&ordertypes.OrderPage{Page: 2, Limit: 12, Total: 30, TotalPages: 3})
	require.True(t, p.HasNextPage)
	require.True(t, p.HasPrevPage)
	require.Equal(t, int64(30), p.TotalItems)
}
