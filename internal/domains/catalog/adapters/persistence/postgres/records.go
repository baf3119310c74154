package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
)

type categoryRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Code      string    `gorm:"column:code;size:64;uniqueIndex"`
	Name      string    `gorm:"column:name;size:128"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID           int64          `gorm:"primaryKey;column:id"`
	Code         string         `gorm:"column:code;size:64;uniqueIndex"`
	Name         string         `gorm:"column:name;size:128"`
	CategoryID   int64          `gorm:"column:category_id;index"`
	CategoryName string         `gorm:"column:category_name;size:128"`
	PriceCents   int64          `gorm:"column:price_cents"`
	Status       string         `gorm:"column:status;type:varchar(16);index"`
	ImageKeys    pq.StringArray `gorm:"column:image_keys;type:text[]"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type comboRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	Code         string            `gorm:"column:code;size:64;uniqueIndex"`
	Name         string            `gorm:"column:name;size:128"`
	CategoryID   int64             `gorm:"column:category_id;index"`
	CategoryName string            `gorm:"column:category_name;size:128"`
	PriceCents   int64             `gorm:"column:price_cents"`
	Items        []comboItemRecord `gorm:"foreignKey:ComboID"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (comboRecord) TableName() string { return "combos" }

type comboItemRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	ComboID     int64     `gorm:"column:combo_id;index"`
	ProductID   int64     `gorm:"column:product_id;index"`
	ProductName string    `gorm:"column:product_name;size:128"`
	Quantity    int32     `gorm:"column:quantity"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (comboItemRecord) TableName() string { return "combo_items" }

func toCategoryRecord(c *domain.Category) categoryRecord {
	return categoryRecord{ID: c.ID, Code: c.Code, Name: c.Name}
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Code: r.Code, Name: r.Name}
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		PriceCents:   p.PriceCents,
		Status:       string(p.Status),
		ImageKeys:    pq.StringArray(append([]string{}, p.ImageKeys...)),
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		Code:         r.Code,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		PriceCents:   r.PriceCents,
		Status:       domain.ProductStatus(r.Status),
		ImageKeys:    append([]string(nil), r.ImageKeys...),
	}
}

func toComboRecord(c *domain.Combo) comboRecord {
	rec := comboRecord{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		PriceCents:   c.PriceCents,
	}
	for _, item := range c.Items {
		rec.Items = append(rec.Items, comboItemRecord{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return rec
}

func (r comboRecord) toDomain() *domain.Combo {
	combo := &domain.Combo{
		ID:           r.ID,
		Code:         r.Code,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		PriceCents:   r.PriceCents,
	}
	for _, item := range r.Items {
		combo.Items = append(combo.Items, domain.ComboItem{
			ID:          item.ID,
			ComboID:     item.ComboID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return combo
}
