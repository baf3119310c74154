package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var (
	_ ports.MaterialRepository = (*MaterialRepository)(nil)
	_ ports.RecipeRepository   = (*RecipeRepository)(nil)
)

type materialRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Code      string    `gorm:"column:code;size:64;uniqueIndex"`
	Name      string    `gorm:"column:name;size:128"`
	Unit      string    `gorm:"column:unit;type:varchar(16)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (materialRecord) TableName() string { return "materials" }

type recipeRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	ProductID    int64     `gorm:"column:product_id;uniqueIndex:idx_recipes_product_material"`
	ProductName  string    `gorm:"column:product_name;size:128"`
	MaterialID   int64     `gorm:"column:material_id;uniqueIndex:idx_recipes_product_material;index"`
	MaterialCode string    `gorm:"column:material_code;size:64"`
	MaterialName string    `gorm:"column:material_name;size:128"`
	Unit         string    `gorm:"column:unit;type:varchar(16)"`
	Quantity     float64   `gorm:"column:quantity"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (recipeRecord) TableName() string { return "product_recipes" }

// MaterialRepository persists materials in PostgreSQL using GORM.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, material *domain.Material) (*domain.Material, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := materialRecord{Code: material.Code, Name: material.Name, Unit: string(material.Unit)}
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, translate(err, ports.ErrDuplicateCode)
	}
	return record.toDomain(), nil
}

func (r *MaterialRepository) Update(ctx context.Context, material *domain.Material) (*domain.Material, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	result := tx.DB(ctx, r.db).Model(&materialRecord{ID: material.ID}).Updates(map[string]any{
		"code": material.Code,
		"name": material.Name,
		"unit": string(material.Unit),
	})
	if result.Error != nil {
		return nil, translate(result.Error, ports.ErrDuplicateCode)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, material.ID)
}

func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*domain.Material, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record materialRecord
	if err := tx.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err, ports.ErrDuplicateCode)
	}
	return record.toDomain(), nil
}

func (r *MaterialRepository) List(ctx context.Context, page projection.PageQuery) (projection.Page[*domain.Material], error) {
	if err := ensureDB(r.db); err != nil {
		return projection.Page[*domain.Material]{}, err
	}
	page = page.Normalize()
	var total int64
	if err := tx.DB(ctx, r.db).Model(&materialRecord{}).Count(&total).Error; err != nil {
		return projection.Page[*domain.Material]{}, err
	}
	var records []materialRecord
	if err := tx.DB(ctx, r.db).Order("id").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return projection.Page[*domain.Material]{}, err
	}
	items := make([]*domain.Material, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return projection.NewPage(items, total, page), nil
}

// RecipeRepository persists product recipes in PostgreSQL using GORM.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.ProductRecipe) (*domain.ProductRecipe, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	record := recipeRecord{
		ProductID:    recipe.ProductID,
		ProductName:  recipe.ProductName,
		MaterialID:   recipe.MaterialID,
		MaterialCode: recipe.MaterialCode,
		MaterialName: recipe.MaterialName,
		Unit:         string(recipe.Unit),
		Quantity:     recipe.Quantity,
	}
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, translate(err, ports.ErrDuplicateRecipe)
	}
	return record.toDomain(), nil
}

func (r *RecipeRepository) ListByProduct(ctx context.Context, productID int64) ([]*domain.ProductRecipe, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var records []recipeRecord
	if err := tx.DB(ctx, r.db).Where("product_id = ?", productID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.ProductRecipe, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *RecipeRepository) UpdateProductName(ctx context.Context, productID int64, name string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&recipeRecord{}).
		Where("product_id = ?", productID).
		Update("product_name", name)
	return result.RowsAffected, result.Error
}

func (r *RecipeRepository) UpdateMaterial(ctx context.Context, materialID int64, code, name string, unit domain.Unit) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&recipeRecord{}).
		Where("material_id = ?", materialID).
		Updates(map[string]any{
			"material_code": code,
			"material_name": name,
			"unit":          string(unit),
		})
	return result.RowsAffected, result.Error
}

func (r materialRecord) toDomain() *domain.Material {
	return &domain.Material{ID: r.ID, Code: r.Code, Name: r.Name, Unit: domain.Unit(r.Unit)}
}

func (r recipeRecord) toDomain() *domain.ProductRecipe {
	return &domain.ProductRecipe{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		MaterialID:   r.MaterialID,
		MaterialCode: r.MaterialCode,
		MaterialName: r.MaterialName,
		Unit:         domain.Unit(r.Unit),
		Quantity:     r.Quantity,
	}
}

func ensureDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func translate(err, duplicate error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	default:
		return err
	}
}
