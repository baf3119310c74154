package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	_ ports.CategoryRepository  = (*CategoryRepository)(nil)
	_ ports.ProductRepository   = (*ProductRepository)(nil)
	_ ports.ComboRepository     = (*ComboRepository)(nil)
	_ ports.ComboItemRepository = (*ComboRepository)(nil)
)

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository wires the repository. Caller manages DB lifecycle and schema.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := toCategoryRecord(category)
	record.ID = 0
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	result := tx.DB(ctx, r.db).Model(&categoryRecord{ID: category.ID}).
		Updates(map[string]any{"code": category.Code, "name": category.Name})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, category.ID)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := tx.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Category], error) {
	if err := ensureDB(r.db); err != nil {
		return projection.Page[*domain.Category]{}, err
	}
	page = page.Normalize()
	var total int64
	if err := tx.DB(ctx, r.db).Model(&categoryRecord{}).Count(&total).Error; err != nil {
		return projection.Page[*domain.Category]{}, err
	}
	var records []categoryRecord
	if err := tx.DB(ctx, r.db).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return projection.Page[*domain.Category]{}, err
	}
	items := make([]*domain.Category, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return projection.NewPage(items, total, page), nil
}

// ProductRepository persists products in PostgreSQL using GORM.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := toProductRecord(product)
	record.ID = 0
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := toProductRecord(product)
	result := tx.DB(ctx, r.db).Model(&productRecord{ID: product.ID}).Updates(map[string]any{
		"code":          record.Code,
		"name":          record.Name,
		"category_id":   record.CategoryID,
		"category_name": record.CategoryName,
		"price_cents":   record.PriceCents,
		"status":        record.Status,
		"image_keys":    record.ImageKeys,
	})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, product.ID)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record productRecord
	if err := tx.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter, page projection.PageQuery) (projection.Page[*domain.Product], error) {
	if err := ensureDB(r.db); err != nil {
		return projection.Page[*domain.Product]{}, err
	}
	page = page.Normalize()
	query := func() *gorm.DB {
		q := tx.DB(ctx, r.db).Model(&productRecord{})
		if filter.CategoryID != 0 {
			q = q.Where("category_id = ?", filter.CategoryID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		return q
	}
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return projection.Page[*domain.Product]{}, err
	}
	var records []productRecord
	if err := query().Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return projection.Page[*domain.Product]{}, err
	}
	items := make([]*domain.Product, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return projection.NewPage(items, total, page), nil
}

func (r *ProductRepository) UpdateCategoryName(ctx context.Context, categoryID int64, name string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&productRecord{}).
		Where("category_id = ?", categoryID).
		Update("category_name", name)
	return result.RowsAffected, result.Error
}

// ComboRepository persists combos and their items in PostgreSQL using GORM.
type ComboRepository struct {
	db *gorm.DB
}

func NewComboRepository(db *gorm.DB) *ComboRepository {
	return &ComboRepository{db: db}
}

// Create inserts the combo and its items in one statement batch.
func (r *ComboRepository) Create(ctx context.Context, combo *domain.Combo) (*domain.Combo, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := toComboRecord(combo)
	record.ID = 0
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *ComboRepository) GetByID(ctx context.Context, id int64) (*domain.Combo, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record comboRecord
	if err := tx.DB(ctx, r.db).Preload("Items", orderByID).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *ComboRepository) List(ctx context.Context, categoryID int64, page projection.PageQuery) (projection.Page[*domain.Combo], error) {
	if err := ensureDB(r.db); err != nil {
		return projection.Page[*domain.Combo]{}, err
	}
	page = page.Normalize()
	query := func() *gorm.DB {
		q := tx.DB(ctx, r.db).Model(&comboRecord{})
		if categoryID != 0 {
			q = q.Where("category_id = ?", categoryID)
		}
		return q
	}
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return projection.Page[*domain.Combo]{}, err
	}
	var records []comboRecord
	if err := query().Preload("Items", orderByID).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return projection.Page[*domain.Combo]{}, err
	}
	items := make([]*domain.Combo, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return projection.NewPage(items, total, page), nil
}

func (r *ComboRepository) UpdateCategoryName(ctx context.Context, categoryID int64, name string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&comboRecord{}).
		Where("category_id = ?", categoryID).
		Update("category_name", name)
	return result.RowsAffected, result.Error
}

func (r *ComboRepository) UpdateProductName(ctx context.Context, productID int64, name string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&comboItemRecord{}).
		Where("product_id = ?", productID).
		Update("product_name", name)
	return result.RowsAffected, result.Error
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func ensureDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrDuplicateCode
	default:
		return err
	}
}
