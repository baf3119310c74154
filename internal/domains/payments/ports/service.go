package ports

import (
	"context"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
)

// Service exposes payment use cases to adapters.
type Service interface {
	CompletePayment(ctx context.Context, id int64, method string) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
}
