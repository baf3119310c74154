package api

import (
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	inventorymemory "github.com/Apurer/breakfast-erp/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/Apurer/breakfast-erp/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	ordersmemory "github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	paymentsmemory "github.com/Apurer/breakfast-erp/internal/domains/payments/adapters/memory"
	paymentspostgres "github.com/Apurer/breakfast-erp/internal/domains/payments/adapters/persistence/postgres"
	paymentsports "github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
)

// repositories holds one store per aggregate plus the transaction runner
// listeners execute in.
type repositories struct {
	categories catalogports.CategoryRepository
	products   catalogports.ProductRepository
	combos     interface {
		catalogports.ComboRepository
		catalogports.ComboItemRepository
	}
	materials inventoryports.MaterialRepository
	recipes   inventoryports.RecipeRepository
	orders    ordersports.Repository
	orderKeys ordersports.IdempotencyStore
	payments  paymentsports.Repository
	tx        tx.Runner
}

// newRepositories returns gorm-backed stores when db is set, in-memory otherwise.
func newRepositories(db *gorm.DB) repositories {
	if db == nil {
		return repositories{
			categories: catalogmemory.NewCategoryRepository(),
			products:   catalogmemory.NewProductRepository(),
			combos:     catalogmemory.NewComboRepository(),
			materials:  inventorymemory.NewMaterialRepository(),
			recipes:    inventorymemory.NewRecipeRepository(),
			orders:     ordersmemory.NewRepository(),
			orderKeys:  ordersmemory.NewIdempotencyStore(),
			payments:   paymentsmemory.NewRepository(),
			tx:         tx.Noop,
		}
	}
	return repositories{
		categories: catalogpostgres.NewCategoryRepository(db),
		products:   catalogpostgres.NewProductRepository(db),
		combos:     catalogpostgres.NewComboRepository(db),
		materials:  inventorypostgres.NewMaterialRepository(db),
		recipes:    inventorypostgres.NewRecipeRepository(db),
		orders:     orderspostgres.NewRepository(db),
		orderKeys:  orderspostgres.NewIdempotencyStore(db),
		payments:   paymentspostgres.NewRepository(db),
		tx:         tx.NewGorm(db),
	}
}
