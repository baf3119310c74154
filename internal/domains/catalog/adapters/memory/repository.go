package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	_ ports.CategoryRepository  = (*CategoryRepository)(nil)
	_ ports.ProductRepository   = (*ProductRepository)(nil)
	_ ports.ComboRepository     = (*ComboRepository)(nil)
	_ ports.ComboItemRepository = (*ComboRepository)(nil)
)

// CategoryRepository is an in-memory category store.
type CategoryRepository struct {
	mu     sync.RWMutex
	rows   map[int64]domain.Category
	nextID int64
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{rows: map[int64]domain.Category{}}
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Code == category.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.nextID++
	clone := *category
	clone.ID = r.nextID
	r.rows[clone.ID] = clone
	return &clone, nil
}

func (r *CategoryRepository) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[category.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	for id, existing := range r.rows {
		if id != category.ID && existing.Code == category.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	clone := *category
	r.rows[clone.ID] = clone
	return &clone, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &row, nil
}

func (r *CategoryRepository) List(_ context.Context, page projection.PageQuery) (projection.Page[*domain.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.rows))
	for _, row := range r.rows {
		clone := row
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return projection.Slice(list, page), nil
}

// ProductRepository is an in-memory product store.
type ProductRepository struct {
	mu     sync.RWMutex
	rows   map[int64]domain.Product
	nextID int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{rows: map[int64]domain.Product{}}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Code == product.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.nextID++
	clone := cloneProduct(*product)
	clone.ID = r.nextID
	r.rows[clone.ID] = clone
	out := cloneProduct(clone)
	return &out, nil
}

func (r *ProductRepository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[product.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	for id, existing := range r.rows {
		if id != product.ID && existing.Code == product.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	clone := cloneProduct(*product)
	r.rows[clone.ID] = clone
	out := cloneProduct(clone)
	return &out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneProduct(row)
	return &out, nil
}

func (r *ProductRepository) List(_ context.Context, filter ports.ProductFilter, page projection.PageQuery) (projection.Page[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.rows))
	for _, row := range r.rows {
		if filter.CategoryID != 0 && row.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		clone := cloneProduct(row)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return projection.Slice(list, page), nil
}

func (r *ProductRepository) UpdateCategoryName(_ context.Context, categoryID int64, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for id, row := range r.rows {
		if row.CategoryID != categoryID {
			continue
		}
		row.CategoryName = name
		r.rows[id] = row
		rows++
	}
	return rows, nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.ImageKeys = append([]string(nil), p.ImageKeys...)
	return p
}

// ComboRepository is an in-memory combo store, items included.
type ComboRepository struct {
	mu         sync.RWMutex
	rows       map[int64]domain.Combo
	nextID     int64
	nextItemID int64
}

func NewComboRepository() *ComboRepository {
	return &ComboRepository{rows: map[int64]domain.Combo{}}
}

func (r *ComboRepository) Create(_ context.Context, combo *domain.Combo) (*domain.Combo, error) {
	if combo == nil {
		return nil, errors.New("combo is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Code == combo.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.nextID++
	clone := cloneCombo(*combo)
	clone.ID = r.nextID
	for i := range clone.Items {
		r.nextItemID++
		clone.Items[i].ID = r.nextItemID
		clone.Items[i].ComboID = clone.ID
	}
	r.rows[clone.ID] = clone
	out := cloneCombo(clone)
	return &out, nil
}

func (r *ComboRepository) GetByID(_ context.Context, id int64) (*domain.Combo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneCombo(row)
	return &out, nil
}

func (r *ComboRepository) List(_ context.Context, categoryID int64, page projection.PageQuery) (projection.Page[*domain.Combo], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Combo, 0, len(r.rows))
	for _, row := range r.rows {
		if categoryID != 0 && row.CategoryID != categoryID {
			continue
		}
		clone := cloneCombo(row)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return projection.Slice(list, page), nil
}

func (r *ComboRepository) UpdateCategoryName(_ context.Context, categoryID int64, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for id, row := range r.rows {
		if row.CategoryID != categoryID {
			continue
		}
		row.CategoryName = name
		r.rows[id] = row
		rows++
	}
	return rows, nil
}

func (r *ComboRepository) UpdateProductName(_ context.Context, productID int64, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for _, row := range r.rows {
		for i := range row.Items {
			if row.Items[i].ProductID == productID {
				row.Items[i].ProductName = name
				rows++
			}
		}
	}
	return rows, nil
}

func cloneCombo(c domain.Combo) domain.Combo {
	c.Items = append([]domain.ComboItem(nil), c.Items...)
	return c
}
