package ports

import (
	"context"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

type ItemInput struct {
	ProductID int64
	Quantity  int32
}

type SubmitOrderInput struct {
	// IdempotencyKey is optional; a repeated key replays the first order.
	IdempotencyKey string
	TableNo        string
	Items          []ItemInput
}

// Service exposes order use cases to adapters.
type Service interface {
	SubmitOrder(ctx context.Context, input SubmitOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64, reason string) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error)
}
