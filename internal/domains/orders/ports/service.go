package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreateExcursionOrder(ctx context.Context, input ordertypes.CreateExcursionOrderInput) (*ordertypes.OrderProjection, error)
	CreateYachtOrder(ctx context.Context, input ordertypes.CreateYachtOrderInput) (*ordertypes.OrderProjection, error)
	CreateTransferOrder(ctx context.Context, input ordertypes.CreateTransferOrderInput) (*ordertypes.OrderProjection, error)
	CaptureExcursionPayment(ctx context.Context, input ordertypes.CapturePaymentInput) (*ordertypes.CaptureResult, error)
	UpdateExcursionOrder(ctx context.Context, input ordertypes.UpdateExcursionOrderInput) (*ordertypes.OrderProjection, error)
	UpdateYachtOrder(ctx context.Context, input ordertypes.UpdateYachtOrderInput) (*ordertypes.OrderProjection, error)
	UpdateTransferOrder(ctx context.Context, input ordertypes.UpdateTransferOrderInput) (*ordertypes.OrderProjection, error)
	GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	SearchOrders(ctx context.Context, input ordertypes.SearchOrdersInput) (*ordertypes.OrderPage, error)
	SoftDelete(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	Purge(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	Stats(ctx context.Context, kind domain.Kind) (*domain.Stats, error)
}
