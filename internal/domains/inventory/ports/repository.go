package ports

import (
	"context"
	"errors"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("inventory entry not found")
	ErrDuplicateCode   = errors.New("material code already exists")
	ErrDuplicateRecipe = errors.New("recipe for product and material already exists")
	// ErrProductNotFound is returned by ProductLookup for unknown products.
	ErrProductNotFound = errors.New("product not found")
)

type MaterialRepository interface {
	Create(ctx context.Context, material *domain.Material) (*domain.Material, error)
	Update(ctx context.Context, material *domain.Material) (*domain.Material, error)
	GetByID(ctx context.Context, id int64) (*domain.Material, error)
	List(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Material], error)
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.ProductRecipe) (*domain.ProductRecipe, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.ProductRecipe, error)
	// UpdateProductName rewrites the cached product name on every recipe of
	// the product.
	UpdateProductName(ctx context.Context, productID int64, name string) (int64, error)
	// UpdateMaterial rewrites all three cached material columns on every
	// recipe using the material.
	UpdateMaterial(ctx context.Context, materialID int64, code, name string, unit domain.Unit) (int64, error)
}

// ProductLookup resolves product names owned by the catalog.
type ProductLookup interface {
	ProductName(ctx context.Context, productID int64) (string, error)
}
