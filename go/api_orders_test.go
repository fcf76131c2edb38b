package bookingserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-gin-booking-api/internal/domains/catalog/domain"
	ordermemory "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

const testAdminToken = "s3cret"

var testNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

type stubGateway struct {
	ref           string
	createErr     error
	captureStatus string
}

func (s *stubGateway) CreatePayment(context.Context, ports.PaymentRequest) (string, error) {
	return s.ref, s.createErr
}

func (s *stubGateway) CapturePayment(_ context.Context, id string) (*ports.CaptureResult, error) {
	return &ports.CaptureResult{OrderID: id, Status: s.captureStatus}, nil
}

type apiFixture struct {
	router  *gin.Engine
	gateway *stubGateway
}

func newAPIFixture(t *testing.T, opts RouterOptions) apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := catalogmemory.NewStore()
	require.NoError(t, catalog.SaveExcursion(context.Background(), &catalogdomain.Excursion{
		ID: "exc-1", Name: "Saona Day Trip", Location: "Bayahibe",
		OfferPriceUSD: decimal.RequireFromString("50"), ChildPriceUSD: decimal.RequireFromString("20"),
	}))
	full := decimal.RequireFromString("300")
	require.NoError(t, catalog.SaveYacht(context.Background(), &catalogdomain.Yacht{
		ID: "yacht-1", Name: "Sea Breeze",
		SaonaPrice:    &catalogdomain.PriceTable{FullDay: &full},
		TimeAvailable: catalogdomain.TimeAvailable{FullDay: "8:00 AM - 4:00 PM"},
	}))

	gateway := &stubGateway{ref: "PAY-1", captureStatus: ports.CaptureStatusCompleted}
	svc := ordersapp.NewService(ordermemory.NewRepository(), catalog,
		ordersapp.WithPaymentGateway(gateway),
		ordersapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		ordersapp.WithClock(func() time.Time { return testNow }),
	)
	if opts.AdminToken == "" {
		opts.AdminToken = testAdminToken
	}
	router := NewRouter(ApiHandleFunctions{OrdersAPI: NewOrdersAPI(svc, time.UTC)}, opts)
	return apiFixture{router: router, gateway: gateway}
}

func (f apiFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testAdminToken}
}

type envelopeBody struct {
	OK         bool            `json:"ok"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

type problemBody struct {
	Status int            `json:"status"`
	Code   string         `json:"code"`
	Detail string         `json:"detail"`
	Ext    map[string]any `json:"extensions"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) problemBody {
	t.Helper()
	var p problemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p), rec.Body.String())
	return p
}

func excursionBody() map[string]any {
	return map[string]any{
		"excursionId": "exc-1",
		"fullName":    "Ana Lopez",
		"email":       "ana@example.com",
		"phone":       "+1 809 555 1234",
		"adults":      2,
		"children":    1,
		"travelDate":  "2025-06-15",
		"hotelName":   "Riu",
	}
}

func createExcursion(t *testing.T, f apiFixture) map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	var order map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &order))
	return order
}

func TestCreateExcursionOrder_ReturnsPricedOrder(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	env := decodeEnvelope(t, rec)
	require.True(t, env.OK)
	var order map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Equal(t, "excursion", order["kind"])
	require.Equal(t, "pending", order["status"])
	require.Equal(t, "PAY-1", order["paypalOrderId"])
	pricing := order["pricing"].(map[string]any)
	require.InDelta(t, 141.60, pricing["totalPrice"], 0.001)
	require.InDelta(t, 21.60, pricing["tax"], 0.001)
}

func TestCreateExcursionOrder_ValidationProblems(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	body := excursionBody()
	delete(body, "email")
	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	problem := decodeProblem(t, rec)
	require.Equal(t, "VALIDATION_ERROR", problem.Code)
	require.Contains(t, problem.Ext["fields"], "email")

	body = excursionBody()
	body["couponCode"] = "FREE"
	rec = f.do(t, http.MethodPost, "/api/excursion-orders/request", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeProblem(t, rec).Detail, "couponCode")

	rec = f.do(t, http.MethodPost, "/api/excursion-orders/request", `{"excursionId":`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body = excursionBody()
	body["travelDate"] = "2025-06-10"
	rec = f.do(t, http.MethodPost, "/api/excursion-orders/request", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", decodeProblem(t, rec).Code)

	body = excursionBody()
	body["excursionId"] = "missing"
	rec = f.do(t, http.MethodPost, "/api/excursion-orders/request", body, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", decodeProblem(t, rec).Code)
}

func TestCreateExcursionOrder_OversizedBodyRejected(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	body := `{"fullName":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", body, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "PAYLOAD_TOO_LARGE", decodeProblem(t, rec).Code)
}

func TestCreateExcursionOrder_PaymentDeclined(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	f.gateway.createErr = ports.ErrPaymentDeclined

	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "PAYMENT_DECLINED", problem.Code)
	require.Equal(t, ordersapp.PaymentDeclinedMessage, problem.Detail)
}

func TestCreateExcursionOrder_IdempotencyKey(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	headers := map[string]string{IdempotencyKeyHeader: "key-1"}

	first := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), headers)
	require.Equal(t, http.StatusCreated, first.Code)
	second := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), headers)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, first).Data, &a))
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, second).Data, &b))
	require.Equal(t, a["id"], b["id"])

	changed := excursionBody()
	changed["adults"] = 4
	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", changed, headers)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "IDEMPOTENCY_CONFLICT", decodeProblem(t, rec).Code)
}

func TestCaptureExcursionPayment(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	createExcursion(t, f)

	rec := f.do(t, http.MethodPost, "/api/excursion-orders/capture/PAY-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var capture struct {
		CaptureStatus string         `json:"captureStatus"`
		Order         map[string]any `json:"order"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &capture))
	require.Equal(t, ports.CaptureStatusCompleted, capture.CaptureStatus)
	require.Equal(t, "paid", capture.Order["status"])

	f.gateway.captureStatus = "PENDING"
	rec = f.do(t, http.MethodPost, "/api/excursion-orders/capture/PAY-1", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "PAYMENT_NOT_COMPLETED", decodeProblem(t, rec).Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodGet, "/api/excursion-orders/all-orders", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", decodeProblem(t, rec).Code)

	rec = f.do(t, http.MethodGet, "/api/excursion-orders/all-orders", nil, map[string]string{"Authorization": "Bearer nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/excursion-orders/all-orders", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListOrders_PaginatesAndFilters(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	for i := 0; i < 3; i++ {
		createExcursion(t, f)
	}

	rec := f.do(t, http.MethodGet, "/api/excursion-orders/all-orders?page=1&limit=2", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	var page map[string]any
	require.NoError(t, json.Unmarshal(env.Pagination, &page))
	require.EqualValues(t, 3, page["totalItems"])
	require.EqualValues(t, 2, page["totalPages"])
	require.Equal(t, true, page["hasNextPage"])
	require.Equal(t, false, page["hasPrevPage"])

	rec = f.do(t, http.MethodGet, "/api/excursion-orders/all-orders?customerName=nobody", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", string(decodeEnvelope(t, rec).Data))

	rec = f.do(t, http.MethodGet, "/api/excursion-orders/all-orders?page=zero", nil, adminHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/yacht-orders/all-orders", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", string(decodeEnvelope(t, rec).Data))
}

func TestUpdateDeletePurgeLifecycle(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	order := createExcursion(t, f)
	id := order["id"].(string)

	rec := f.do(t, http.MethodPatch, "/api/excursion-orders/update/"+id, map[string]any{"internalNotes": "VIP"}, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPatch, "/api/excursion-orders/update/"+id, map[string]any{"status": "bogus"}, adminHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/excursion-orders/purge/"+id, nil, adminHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/excursion-orders/delete/"+id, nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/excursion-orders/purge/"+id, nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/excursion-orders/detail/"+id, nil, adminHeaders())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_WrongKindIsNotFound(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})
	order := createExcursion(t, f)

	rec := f.do(t, http.MethodGet, "/api/yacht-orders/detail/"+order["id"].(string), nil, adminHeaders())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransferQuoteAndStats(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodPost, "/api/transfer-orders/request", map[string]any{
		"fullName":       "Ana Lopez",
		"email":          "ana@example.com",
		"phone":          "18095551234",
		"transferType":   "airport-hotel",
		"pickUpLocation": "PUJ Airport",
		"destination":    "Hotel Riu",
		"numPassengers":  3,
		"pickUpDate":     "2025-06-20",
		"arrivalTime":    "14:30",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &order))
	id := order["id"].(string)

	rec = f.do(t, http.MethodPatch, "/api/transfer-orders/update/"+id, map[string]any{
		"status":  "confirmed",
		"pricing": map[string]any{"totalPrice": 85, "currency": "usd"},
	}, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &order))
	require.Equal(t, "confirmed", order["status"])
	require.InDelta(t, 85.0, order["pricing"].(map[string]any)["totalPrice"], 0.001)

	rec = f.do(t, http.MethodGet, "/api/transfer-orders/stats", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalOrders int64            `json:"totalOrders"`
		Revenue     float64          `json:"revenue"`
		StatusCount map[string]int64 `json:"statusCount"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stats))
	require.EqualValues(t, 1, stats.TotalOrders)
	require.InDelta(t, 85.0, stats.Revenue, 0.001)
	require.EqualValues(t, 1, stats.StatusCount["confirmed"])
	require.Len(t, stats.StatusCount, 6)
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{WriteLimiter: NewIPRateLimiter(0.001, 1)})

	rec := f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/excursion-orders/request", excursionBody(), nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "RATE_LIMITED", decodeProblem(t, rec).Code)

	rec = f.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newAPIFixture(t, RouterOptions{})

	rec := f.do(t, http.MethodGet, "/healthz", nil, map[string]string{RequestIDHeader: "abc-123"})
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
