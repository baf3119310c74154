package ports

import (
	"context"
	"errors"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// List filters by status when status is non-empty.
	List(ctx context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error)
	// UpdateStatus moves the order from one status to another and reports the
	// rows touched. Zero rows means the order was not in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (int64, error)
}

// Product is the catalog view an order needs when pricing an item.
type Product struct {
	ID         int64
	Name       string
	PriceCents int64
	OnSale     bool
}

// ProductCatalog resolves products owned by the catalog.
type ProductCatalog interface {
	Product(ctx context.Context, id int64) (Product, error)
}
