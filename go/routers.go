package bookingserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Admin routes require the operator bearer token.
	Admin bool
	// Write routes pass the per-IP rate limiter.
	Write bool
}

// ApiHandleFunctions groups the handlers mounted by the router.
type ApiHandleFunctions struct {
	OrdersAPI OrdersAPI
	HealthAPI HealthAPI
}

// RouterOptions configures the cross-cutting middleware applied per route.
type RouterOptions struct {
	// AdminToken protects admin routes. Empty disables the check.
	AdminToken string
	// WriteLimiter throttles write routes. Nil disables throttling.
	WriteLimiter *IPRateLimiter
	// Logger receives one access log line per request. Nil uses slog.Default.
	Logger *slog.Logger
	// Middleware runs on every route after the request id and access log handlers.
	Middleware []gin.HandlerFunc
}

// NewRouter returns a new router. Global middleware is attached before any route is
// registered, since gin copies the chain into each route at registration.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(opts.Logger))
	router.Use(opts.Middleware...)
	return NewRouterWithGinEngine(router, handleFunctions, opts)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	admin := AdminAuth(opts.AdminToken)
	write := RateLimit(opts.WriteLimiter)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 3)
		if route.Admin {
			chain = append(chain, admin)
		}
		if route.Write {
			chain = append(chain, write)
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	api := &handleFunctions.OrdersAPI
	kinds := []struct {
		name   string
		kind   domain.Kind
		prefix string
		create gin.HandlerFunc
		update gin.HandlerFunc
	}{
		{"Excursion", domain.KindExcursion, "/api/excursion-orders", api.CreateExcursionOrder, api.UpdateExcursionOrder},
		{"Yacht", domain.KindYacht, "/api/yacht-orders", api.CreateYachtOrder, api.UpdateYachtOrder},
		{"Transfer", domain.KindTransfer, "/api/transfer-orders", api.CreateTransferOrder, api.UpdateTransferOrder},
	}

	routes := []Route{
		{Name: "Healthz", Method: http.MethodGet, Pattern: "/healthz", HandlerFunc: handleFunctions.HealthAPI.Healthz},
		{
			Name:        "CaptureExcursionPayment",
			Method:      http.MethodPost,
			Pattern:     "/api/excursion-orders/capture/:orderId",
			HandlerFunc: api.CaptureExcursionPayment,
			Write:       true,
		},
	}
	for _, k := range kinds {
		routes = append(routes,
			Route{Name: "Create" + k.name + "Order", Method: http.MethodPost, Pattern: k.prefix + "/request", HandlerFunc: k.create, Write: true},
			Route{Name: "List" + k.name + "Orders", Method: http.MethodGet, Pattern: k.prefix + "/all-orders", HandlerFunc: api.ListOrders(k.kind), Admin: true},
			Route{Name: k.name + "OrderStats", Method: http.MethodGet, Pattern: k.prefix + "/stats", HandlerFunc: api.OrderStats(k.kind), Admin: true},
			Route{Name: "Get" + k.name + "Order", Method: http.MethodGet, Pattern: k.prefix + "/detail/:id", HandlerFunc: api.GetOrder(k.kind), Admin: true},
			Route{Name: "Update" + k.name + "Order", Method: http.MethodPatch, Pattern: k.prefix + "/update/:id", HandlerFunc: k.update, Admin: true, Write: true},
			Route{Name: "Delete" + k.name + "Order", Method: http.MethodDelete, Pattern: k.prefix + "/delete/:id", HandlerFunc: api.DeleteOrder(k.kind), Admin: true},
			Route{Name: "Purge" + k.name + "Order", Method: http.MethodDelete, Pattern: k.prefix + "/purge/:id", HandlerFunc: api.PurgeOrder(k.kind), Admin: true},
		)
	}
	return routes
}
