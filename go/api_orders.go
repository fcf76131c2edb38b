package bookingserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry a booking request safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrdersAPI wires HTTP transport with the orders bounded context service.
type OrdersAPI struct {
	service  ports.Service
	location *time.Location
}

// NewOrdersAPI creates an OrdersAPI. Calendar dates in requests are read in loc.
func NewOrdersAPI(service ports.Service, loc *time.Location) OrdersAPI {
	if loc == nil {
		loc = time.UTC
	}
	return OrdersAPI{service: service, location: loc}
}

// Post /api/excursion-orders/request
// Books an excursion and opens the PayPal checkout
func (api *OrdersAPI) CreateExcursionOrder(c *gin.Context) {
	var payload ordermapper.ExcursionOrderRequest
	if !decodeJSON(c, &payload) {
		return
	}
	input, err := ordermapper.ToCreateExcursionInput(payload, idempotencyKey(c), api.location)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.CreateExcursionOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Excursion booking request received successfully", ordermapper.FromProjection(saved))
}

// Post /api/yacht-orders/request
// Requests a yacht charter
func (api *OrdersAPI) CreateYachtOrder(c *gin.Context) {
	var payload ordermapper.YachtOrderRequest
	if !decodeJSON(c, &payload) {
		return
	}
	input, err := ordermapper.ToCreateYachtInput(payload, idempotencyKey(c), api.location)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.CreateYachtOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Yacht booking request successfully received", ordermapper.FromProjection(saved))
}

// Post /api/transfer-orders/request
// Requests a transfer quote
func (api *OrdersAPI) CreateTransferOrder(c *gin.Context) {
	var payload ordermapper.TransferOrderRequest
	if !decodeJSON(c, &payload) {
		return
	}
	input, err := ordermapper.ToCreateTransferInput(payload, idempotencyKey(c), api.location)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.CreateTransferOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Transfer request received successfully", ordermapper.FromProjection(saved))
}

// Post /api/excursion-orders/capture/:orderId
// Captures an approved PayPal order and marks the excursion paid
func (api *OrdersAPI) CaptureExcursionPayment(c *gin.Context) {
	gatewayOrderID := strings.TrimSpace(c.Param("orderId"))
	if gatewayOrderID == "" {
		respondProblemDetail(c, "orderId is required")
		return
	}
	result, err := api.service.CaptureExcursionPayment(c.Request.Context(), ordertypes.CapturePaymentInput{GatewayOrderID: gatewayOrderID})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Payment captured successfully", ordermapper.FromCaptureResult(result))
}

// Get /api/{kind}-orders/all-orders
// Lists orders newest first with filters and pagination
func (api *OrdersAPI) ListOrders(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := queryInt(c, "page")
		if !ok {
			return
		}
		limit, ok := queryInt(c, "limit")
		if !ok {
			return
		}
		input := ordertypes.SearchOrdersInput{
			Kind:   kind,
			Query:  searchQuery(c),
			Status: strings.TrimSpace(c.Query("status")),
			Page:   page,
			Limit:  limit,
		}
		result, err := api.service.SearchOrders(c.Request.Context(), input)
		if err != nil {
			respondOrderServiceError(c, err)
			return
		}
		pagination := ordermapper.FromPage(result)
		respondPage(c, kindLabel(kind)+" orders retrieved successfully", ordermapper.FromProjectionList(result.Items), pagination)
	}
}

// Get /api/{kind}-orders/stats
// Returns the dashboard figures of one order kind
func (api *OrdersAPI) OrderStats(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := api.service.Stats(c.Request.Context(), kind)
		if err != nil {
			respondOrderServiceError(c, err)
			return
		}
		respondOK(c, http.StatusOK, kindLabel(kind)+" statistics retrieved successfully", ordermapper.FromStats(stats))
	}
}

// Get /api/{kind}-orders/detail/:id
// Finds an order by id
func (api *OrdersAPI) GetOrder(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{Kind: kind, ID: c.Param("id")})
		if err != nil {
			respondOrderServiceError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Order retrieved successfully", ordermapper.FromProjection(order))
	}
}

// Patch /api/excursion-orders/update/:id
// Updates status or internal notes of an excursion order
func (api *OrdersAPI) UpdateExcursionOrder(c *gin.Context) {
	var payload ordermapper.ExcursionOrderUpdate
	if !decodeJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateExcursionOrder(c.Request.Context(), ordermapper.ToUpdateExcursionInput(c.Param("id"), payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Excursion order updated successfully", ordermapper.FromProjection(updated))
}

// Patch /api/yacht-orders/update/:id
// Updates status, availability or internal notes of a yacht order
func (api *OrdersAPI) UpdateYachtOrder(c *gin.Context) {
	var payload ordermapper.YachtOrderUpdate
	if !decodeJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateYachtOrder(c.Request.Context(), ordermapper.ToUpdateYachtInput(c.Param("id"), payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Yacht order updated successfully", ordermapper.FromProjection(updated))
}

// Patch /api/transfer-orders/update/:id
// Updates status, quote or internal notes of a transfer order
func (api *OrdersAPI) UpdateTransferOrder(c *gin.Context) {
	var payload ordermapper.TransferOrderUpdate
	if !decodeJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateTransferOrder(c.Request.Context(), ordermapper.ToUpdateTransferInput(c.Param("id"), payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Transfer order updated successfully", ordermapper.FromProjection(updated))
}

// Delete /api/{kind}-orders/delete/:id
// Soft deletes an order
func (api *OrdersAPI) DeleteOrder(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := api.service.SoftDelete(c.Request.Context(), ordertypes.OrderIdentifier{Kind: kind, ID: c.Param("id")})
		if err != nil {
			respondOrderServiceError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Order moved to deleted status", ordermapper.FromProjection(order))
	}
}

// Delete /api/{kind}-orders/purge/:id
// Permanently removes a soft-deleted order
func (api *OrdersAPI) PurgeOrder(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := api.service.Purge(c.Request.Context(), ordertypes.OrderIdentifier{Kind: kind, ID: c.Param("id")})
		if err != nil {
			respondOrderServiceError(c, err)
			return
		}
		respondOK(c, http.StatusOK, kindLabel(kind)+" order permanently purged from database", ordermapper.FromProjection(order))
	}
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
}

// searchQuery accepts q plus the legacy per-field filters; the first non-empty one wins.
func searchQuery(c *gin.Context) string {
	for _, key := range []string{"q", "customerName", "orderNumber", "excursionName", "yachtName", "transferType"} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return v
		}
	}
	return ""
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		respondProblemDetail(c, key+" must be a positive integer")
		return 0, false
	}
	return v, true
}

func kindLabel(kind domain.Kind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
