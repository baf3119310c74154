package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

// Service orchestrates the catalog use cases. Updates to categories and
// products publish change events after they are persisted.
type Service struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	combos     ports.ComboRepository
	publisher  events.Publisher
}

func NewService(categories ports.CategoryRepository, products ports.ProductRepository, combos ports.ComboRepository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{categories: categories, products: products, combos: combos, publisher: publisher}
}

func (s *Service) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(input.Code, input.Name)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateCategory applies a partial update and publishes CategoryRenamed with
// the before/after names.
func (s *Service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	before := events.CategorySnapshot{Name: category.Name}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, mapError(domain.ErrEmptyCode)
		}
		category.Code = code
	}
	if input.Name != nil {
		if err := category.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	saved, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	s.publisher.Publish(ctx, events.NewCategoryRenamed(saved.ID, before, events.CategorySnapshot{Name: saved.Name}))
	return saved, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Category], error) {
	result, err := s.categories.List(ctx, page.Normalize())
	if err != nil {
		return projection.Page[*domain.Category]{}, mapError(err)
	}
	return result, nil
}

// CreateProduct stores a product with the current name of its category.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Code:       strings.TrimSpace(input.Code),
		Name:       strings.TrimSpace(input.Name),
		CategoryID: input.CategoryID,
		PriceCents: input.PriceCents,
		Status:     productStatus(input.Status),
		ImageKeys:  append([]string{}, input.ImageKeys...),
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	category, err := s.lookupCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	product.AssignCategory(category)
	saved, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct applies a partial update and publishes ProductChanged.
func (s *Service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	before := events.ProductSnapshot{Code: product.Code, Name: product.Name}
	if input.Code != nil {
		product.Code = strings.TrimSpace(*input.Code)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Status != nil {
		product.Status = productStatus(*input.Status)
	}
	if input.ImageKeys != nil {
		product.ImageKeys = append([]string{}, (*input.ImageKeys)...)
	}
	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		category, err := s.lookupCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.AssignCategory(category)
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.products.Update(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	s.publisher.Publish(ctx, events.NewProductChanged(saved.ID, before, events.ProductSnapshot{Code: saved.Code, Name: saved.Name}))
	return saved, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter, page projection.PageQuery) (projection.Page[*domain.Product], error) {
	result, err := s.products.List(ctx, filter, page.Normalize())
	if err != nil {
		return projection.Page[*domain.Product]{}, mapError(err)
	}
	return result, nil
}

// CreateCombo stores a combo, copying the category name and every item's
// product name at creation time.
func (s *Service) CreateCombo(ctx context.Context, input ComboInput) (*domain.Combo, error) {
	combo := &domain.Combo{
		Code:       strings.TrimSpace(input.Code),
		Name:       strings.TrimSpace(input.Name),
		CategoryID: input.CategoryID,
		PriceCents: input.PriceCents,
	}
	for _, item := range input.Items {
		combo.Items = append(combo.Items, domain.ComboItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := combo.Validate(); err != nil {
		return nil, mapError(err)
	}
	category, err := s.lookupCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	combo.CategoryName = category.Name
	for i := range combo.Items {
		product, err := s.products.GetByID(ctx, combo.Items[i].ProductID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d does not exist", ErrInvalidInput, combo.Items[i].ProductID)
			}
			return nil, mapError(err)
		}
		combo.Items[i].ProductName = product.Name
	}
	saved, err := s.combos.Create(ctx, combo)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetCombo(ctx context.Context, id int64) (*domain.Combo, error) {
	combo, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return combo, nil
}

func (s *Service) ListCombos(ctx context.Context, categoryID int64, page projection.PageQuery) (projection.Page[*domain.Combo], error) {
	result, err := s.combos.List(ctx, categoryID, page.Normalize())
	if err != nil {
		return projection.Page[*domain.Combo]{}, mapError(err)
	}
	return result, nil
}

func (s *Service) lookupCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, id)
		}
		return nil, mapError(err)
	}
	return category, nil
}

func productStatus(raw string) domain.ProductStatus {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return domain.ProductOnSale
	}
	return domain.ProductStatus(raw)
}
