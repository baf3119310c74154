package ports

import (
	"context"
	"errors"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("catalog entry not found")
	ErrDuplicateCode = errors.New("catalog code already exists")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Category], error)
}

// ProductFilter narrows product listings. Zero values match everything.
type ProductFilter struct {
	CategoryID int64
	Status     domain.ProductStatus
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, page projection.PageQuery) (projection.Page[*domain.Product], error)
	// UpdateCategoryName rewrites the cached category name on every product of
	// the category and returns the number of rows touched.
	UpdateCategoryName(ctx context.Context, categoryID int64, name string) (int64, error)
}

type ComboRepository interface {
	Create(ctx context.Context, combo *domain.Combo) (*domain.Combo, error)
	GetByID(ctx context.Context, id int64) (*domain.Combo, error)
	List(ctx context.Context, categoryID int64, page projection.PageQuery) (projection.Page[*domain.Combo], error)
	UpdateCategoryName(ctx context.Context, categoryID int64, name string) (int64, error)
}

type ComboItemRepository interface {
	UpdateProductName(ctx context.Context, productID int64, name string) (int64, error)
}
