package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *capturePublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fixture struct {
	svc        *Service
	categories *memory.CategoryRepository
	products   *memory.ProductRepository
	combos     *memory.ComboRepository
	publisher  *capturePublisher
}

func newFixture() fixture {
	f := fixture{
		categories: memory.NewCategoryRepository(),
		products:   memory.NewProductRepository(),
		combos:     memory.NewComboRepository(),
		publisher:  &capturePublisher{},
	}
	f.svc = NewService(f.categories, f.products, f.combos, f.publisher)
	return f
}

func strPtr(s string) *string { return &s }

func TestCreateCategory_RejectsBlankName(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCategory(context.Background(), CategoryInput{Code: "BRK", Name: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestCreateCategory_DuplicateCodeIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)
	_, err = f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Brunch"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateCategory_PublishesRenameWithBeforeAndAfter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateCategory(ctx, UpdateCategoryInput{ID: category.ID, Name: strPtr("Morning Set")})
	require.NoError(t, err)
	assert.Equal(t, "Morning Set", updated.Name)

	published := f.publisher.published()
	require.Len(t, published, 1)
	ev, ok := published[0].(events.CategoryRenamed)
	require.True(t, ok)
	assert.Equal(t, category.ID, ev.CategoryID)
	assert.Equal(t, "Breakfast", ev.Before.Name)
	assert.Equal(t, "Morning Set", ev.After.Name)
	assert.True(t, ev.NameChanged())
}

func TestUpdateCategory_CodeOnlyStillPublishesUnchangedName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)

	_, err = f.svc.UpdateCategory(ctx, UpdateCategoryInput{ID: category.ID, Code: strPtr("BRK-2")})
	require.NoError(t, err)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.False(t, published[0].(events.CategoryRenamed).NameChanged())
}

func TestUpdateCategory_MissingCategoryPublishesNothing(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateCategory(context.Background(), UpdateCategoryInput{ID: 99, Name: strPtr("Ghost")})
	require.ErrorIs(t, err, ports.ErrNotFound)
	assert.Empty(t, f.publisher.published())
}

func TestCreateProduct_CopiesCategoryName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)

	product, err := f.svc.CreateProduct(ctx, ProductInput{Code: "P-1", Name: "Ham Toast", CategoryID: category.ID, PriceCents: 4500})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", product.CategoryName)
	assert.Equal(t, domain.ProductOnSale, product.Status)
}

func TestCreateProduct_UnknownCategoryIsInvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateProduct(context.Background(), ProductInput{Code: "P-1", Name: "Ham Toast", CategoryID: 42})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_PublishesProductChanged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)
	product, err := f.svc.CreateProduct(ctx, ProductInput{Code: "P-1", Name: "Ham Toast", CategoryID: category.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateProduct(ctx, UpdateProductInput{ID: product.ID, Name: strPtr("Ham & Egg Toast")})
	require.NoError(t, err)

	published := f.publisher.published()
	require.Len(t, published, 1)
	ev := published[0].(events.ProductChanged)
	assert.Equal(t, product.ID, ev.ProductID)
	assert.Equal(t, "Ham Toast", ev.Before.Name)
	assert.Equal(t, "Ham & Egg Toast", ev.After.Name)
	assert.False(t, ev.CodeChanged())
}

func TestUpdateProduct_InvalidStatusPublishesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "BRK", Name: "Breakfast"})
	require.NoError(t, err)
	product, err := f.svc.CreateProduct(ctx, ProductInput{Code: "P-1", Name: "Ham Toast", CategoryID: category.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateProduct(ctx, UpdateProductInput{ID: product.ID, Status: strPtr("SOLD_OUT")})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Empty(t, f.publisher.published())
}

func TestCreateCombo_CopiesNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "SET", Name: "Sets"})
	require.NoError(t, err)
	toast, err := f.svc.CreateProduct(ctx, ProductInput{Code: "P-1", Name: "Ham Toast", CategoryID: category.ID})
	require.NoError(t, err)
	tea, err := f.svc.CreateProduct(ctx, ProductInput{Code: "P-2", Name: "Black Tea", CategoryID: category.ID})
	require.NoError(t, err)

	combo, err := f.svc.CreateCombo(ctx, ComboInput{
		Code:       "C-1",
		Name:       "Morning A",
		CategoryID: category.ID,
		PriceCents: 8000,
		Items: []ComboItemInput{
			{ProductID: toast.ID, Quantity: 1},
			{ProductID: tea.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sets", combo.CategoryName)
	require.Len(t, combo.Items, 2)
	assert.Equal(t, "Ham Toast", combo.Items[0].ProductName)
	assert.Equal(t, "Black Tea", combo.Items[1].ProductName)
	assert.Equal(t, combo.ID, combo.Items[0].ComboID)
}

func TestCreateCombo_UnknownProductIsInvalidInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "SET", Name: "Sets"})
	require.NoError(t, err)

	_, err = f.svc.CreateCombo(ctx, ComboInput{
		Code: "C-1", Name: "Morning A", CategoryID: category.ID,
		Items: []ComboItemInput{{ProductID: 77, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListProducts_FiltersByCategoryAndPages(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	drinks, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "DRK", Name: "Drinks"})
	require.NoError(t, err)
	food, err := f.svc.CreateCategory(ctx, CategoryInput{Code: "FOD", Name: "Food"})
	require.NoError(t, err)
	for i, code := range []string{"D-1", "D-2", "D-3"} {
		_, err := f.svc.CreateProduct(ctx, ProductInput{Code: code, Name: code, CategoryID: drinks.ID, PriceCents: int64(i)})
		require.NoError(t, err)
	}
	_, err = f.svc.CreateProduct(ctx, ProductInput{Code: "F-1", Name: "Toast", CategoryID: food.ID})
	require.NoError(t, err)

	page, err := f.svc.ListProducts(ctx, ports.ProductFilter{CategoryID: drinks.ID}, projection.PageQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "D-3", page.Items[0].Code)
}
