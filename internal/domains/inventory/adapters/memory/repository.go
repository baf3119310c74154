package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	_ ports.MaterialRepository = (*MaterialRepository)(nil)
	_ ports.RecipeRepository   = (*RecipeRepository)(nil)
)

// MaterialRepository is an in-memory material store.
type MaterialRepository struct {
	mu     sync.RWMutex
	rows   map[int64]domain.Material
	nextID int64
}

func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{rows: map[int64]domain.Material{}}
}

func (r *MaterialRepository) Create(_ context.Context, material *domain.Material) (*domain.Material, error) {
	if material == nil {
		return nil, errors.New("material is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Code == material.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.nextID++
	clone := *material
	clone.ID = r.nextID
	r.rows[clone.ID] = clone
	return &clone, nil
}

func (r *MaterialRepository) Update(_ context.Context, material *domain.Material) (*domain.Material, error) {
	if material == nil {
		return nil, errors.New("material is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[material.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	for id, existing := range r.rows {
		if id != material.ID && existing.Code == material.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	clone := *material
	r.rows[clone.ID] = clone
	return &clone, nil
}

func (r *MaterialRepository) GetByID(_ context.Context, id int64) (*domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &row, nil
}

func (r *MaterialRepository) List(_ context.Context, page projection.PageQuery) (projection.Page[*domain.Material], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Material, 0, len(r.rows))
	for _, row := range r.rows {
		clone := row
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return projection.Slice(list, page), nil
}

// RecipeRepository is an in-memory recipe store.
type RecipeRepository struct {
	mu     sync.RWMutex
	rows   map[int64]domain.ProductRecipe
	nextID int64
}

func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{rows: map[int64]domain.ProductRecipe{}}
}

func (r *RecipeRepository) Create(_ context.Context, recipe *domain.ProductRecipe) (*domain.ProductRecipe, error) {
	if recipe == nil {
		return nil, errors.New("recipe is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.ProductID == recipe.ProductID && existing.MaterialID == recipe.MaterialID {
			return nil, ports.ErrDuplicateRecipe
		}
	}
	r.nextID++
	clone := *recipe
	clone.ID = r.nextID
	r.rows[clone.ID] = clone
	return &clone, nil
}

func (r *RecipeRepository) ListByProduct(_ context.Context, productID int64) ([]*domain.ProductRecipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.ProductRecipe, 0)
	for _, row := range r.rows {
		if row.ProductID != productID {
			continue
		}
		clone := row
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *RecipeRepository) UpdateProductName(_ context.Context, productID int64, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for id, row := range r.rows {
		if row.ProductID != productID {
			continue
		}
		row.ProductName = name
		r.rows[id] = row
		rows++
	}
	return rows, nil
}

func (r *RecipeRepository) UpdateMaterial(_ context.Context, materialID int64, code, name string, unit domain.Unit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for id, row := range r.rows {
		if row.MaterialID != materialID {
			continue
		}
		row.MaterialCode = code
		row.MaterialName = name
		row.Unit = unit
		r.rows[id] = row
		rows++
	}
	return rows, nil
}
