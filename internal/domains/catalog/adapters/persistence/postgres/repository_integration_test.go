//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/migrations"
	platformpostgres "github.com/Apurer/breakfast-erp/internal/platform/postgres"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("breakfast_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCatalogRepositories_CategoryRenameFansOutToCopies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupPostgres(t)
	ctx := context.Background()
	categories := catalogpostgres.NewCategoryRepository(db)
	products := catalogpostgres.NewProductRepository(db)
	combos := catalogpostgres.NewComboRepository(db)

	breakfast, err := categories.Create(ctx, &domain.Category{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)
	drinks, err := categories.Create(ctx, &domain.Category{Code: "DRK", Name: "Drinks"})
	require.NoError(t, err)

	toast, err := products.Create(ctx, &domain.Product{
		Code: "P-1", Name: "Ham Toast", CategoryID: breakfast.ID, CategoryName: breakfast.Name,
		PriceCents: 4500, Status: domain.ProductOnSale, ImageKeys: []string{"toast.png"},
	})
	require.NoError(t, err)
	tea, err := products.Create(ctx, &domain.Product{
		Code: "P-2", Name: "Black Tea", CategoryID: drinks.ID, CategoryName: drinks.Name, Status: domain.ProductOnSale,
	})
	require.NoError(t, err)
	combo, err := combos.Create(ctx, &domain.Combo{
		Code: "C-1", Name: "Morning A", CategoryID: breakfast.ID, CategoryName: breakfast.Name, PriceCents: 8000,
		Items: []domain.ComboItem{
			{ProductID: toast.ID, ProductName: toast.Name, Quantity: 1},
			{ProductID: tea.ID, ProductName: tea.Name, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, combo.Items, 2)

	runner := tx.NewGorm(db)
	err = runner.WithinTx(ctx, func(ctx context.Context) error {
		rows, err := products.UpdateCategoryName(ctx, breakfast.ID, "Morning Set")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		rows, err = combos.UpdateCategoryName(ctx, breakfast.ID, "Morning Set")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		rows, err = combos.UpdateProductName(ctx, tea.ID, "Earl Grey")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		return nil
	})
	require.NoError(t, err)

	gotToast, err := products.GetByID(ctx, toast.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Set", gotToast.CategoryName)
	assert.Equal(t, []string{"toast.png"}, gotToast.ImageKeys)

	gotTea, err := products.GetByID(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", gotTea.CategoryName)

	gotCombo, err := combos.GetByID(ctx, combo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Set", gotCombo.CategoryName)
	assert.Equal(t, "Earl Grey", gotCombo.Items[1].ProductName)
}

func TestCatalogRepositories_RolledBackTransactionLeavesCopies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupPostgres(t)
	ctx := context.Background()
	categories := catalogpostgres.NewCategoryRepository(db)
	products := catalogpostgres.NewProductRepository(db)

	category, err := categories.Create(ctx, &domain.Category{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)
	product, err := products.Create(ctx, &domain.Product{
		Code: "P-1", Name: "Ham Toast", CategoryID: category.ID, CategoryName: category.Name, Status: domain.ProductOnSale,
	})
	require.NoError(t, err)

	err = tx.NewGorm(db).WithinTx(ctx, func(ctx context.Context) error {
		if _, err := products.UpdateCategoryName(ctx, category.ID, "Morning Set"); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", got.CategoryName)
}

func TestCatalogRepositories_DuplicateCodeAndPaging(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupPostgres(t)
	ctx := context.Background()
	categories := catalogpostgres.NewCategoryRepository(db)

	for _, code := range []string{"A", "B", "C"} {
		_, err := categories.Create(ctx, &domain.Category{Code: code, Name: code})
		require.NoError(t, err)
	}
	_, err := categories.Create(ctx, &domain.Category{Code: "A", Name: "again"})
	require.ErrorIs(t, err, ports.ErrDuplicateCode)

	page, err := categories.List(ctx, projection.PageQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "C", page.Items[0].Code)

	_, err = categories.GetByID(ctx, 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
