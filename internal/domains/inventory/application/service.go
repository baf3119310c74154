package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

// Service manages materials and product recipes.
type Service struct {
	materials ports.MaterialRepository
	recipes   ports.RecipeRepository
	products  ports.ProductLookup
	publisher events.Publisher
}

func NewService(materials ports.MaterialRepository, recipes ports.RecipeRepository, products ports.ProductLookup, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{materials: materials, recipes: recipes, products: products, publisher: publisher}
}

func (s *Service) CreateMaterial(ctx context.Context, input MaterialInput) (*domain.Material, error) {
	unit, err := domain.ParseUnit(input.Unit)
	if err != nil {
		return nil, mapError(err)
	}
	material, err := domain.NewMaterial(input.Code, input.Name, unit)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.materials.Create(ctx, material)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateMaterial applies a partial update and publishes MaterialChanged.
func (s *Service) UpdateMaterial(ctx context.Context, input UpdateMaterialInput) (*domain.Material, error) {
	material, err := s.materials.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	before := snapshot(material)
	if input.Code != nil {
		material.Code = strings.TrimSpace(*input.Code)
	}
	if input.Name != nil {
		material.Name = strings.TrimSpace(*input.Name)
	}
	if input.Unit != nil {
		unit, err := domain.ParseUnit(*input.Unit)
		if err != nil {
			return nil, mapError(err)
		}
		material.Unit = unit
	}
	if err := material.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.materials.Update(ctx, material)
	if err != nil {
		return nil, mapError(err)
	}
	s.publisher.Publish(ctx, events.NewMaterialChanged(saved.ID, before, snapshot(saved)))
	return saved, nil
}

func (s *Service) GetMaterial(ctx context.Context, id int64) (*domain.Material, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return material, nil
}

func (s *Service) ListMaterials(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Material], error) {
	result, err := s.materials.List(ctx, page.Normalize())
	if err != nil {
		return projection.Page[*domain.Material]{}, mapError(err)
	}
	return result, nil
}

// AddRecipe links a material to a product, copying the product name and the
// material code, name and unit onto the recipe row.
func (s *Service) AddRecipe(ctx context.Context, input RecipeInput) (*domain.ProductRecipe, error) {
	recipe := &domain.ProductRecipe{ProductID: input.ProductID, MaterialID: input.MaterialID, Quantity: input.Quantity}
	if err := recipe.Validate(); err != nil {
		return nil, mapError(err)
	}
	name, err := s.products.ProductName(ctx, input.ProductID)
	if err != nil {
		return nil, mapError(err)
	}
	recipe.ProductName = name
	material, err := s.materials.GetByID(ctx, input.MaterialID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: material %d does not exist", ErrInvalidInput, input.MaterialID)
		}
		return nil, mapError(err)
	}
	recipe.UseMaterial(material)
	saved, err := s.recipes.Create(ctx, recipe)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) ListRecipes(ctx context.Context, productID int64) ([]*domain.ProductRecipe, error) {
	recipes, err := s.recipes.ListByProduct(ctx, productID)
	if err != nil {
		return nil, mapError(err)
	}
	return recipes, nil
}

func snapshot(m *domain.Material) events.MaterialSnapshot {
	return events.MaterialSnapshot{Code: m.Code, Name: m.Name, Unit: string(m.Unit)}
}
