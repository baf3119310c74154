package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&comboRecord{},
		&comboItemRecord{},
		&materialRecord{},
		&recipeRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
		&paymentRecord{},
	)
}

// Catalog schema mirrors the catalog Postgres adapter.
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
	ID           int64     `gorm:"primaryKey;column:id"`
	Code         string    `gorm:"column:code;size:64;uniqueIndex"`
	Name         string    `gorm:"column:name;size:128"`
	CategoryID   int64     `gorm:"column:category_id;index"`
	CategoryName string    `gorm:"column:category_name;size:128"`
	PriceCents   int64     `gorm:"column:price_cents"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
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

// Inventory schema mirrors the inventory Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	OrderNo    string    `gorm:"column:order_no;size:32;uniqueIndex"`
	TableNo    string    `gorm:"column:table_no;size:16"`
	Status     string    `gorm:"column:status;type:varchar(32);index"`
	Items      string    `gorm:"column:items;type:jsonb"`
	TotalCents int64     `gorm:"column:total_cents"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Payment schema mirrors the payments Postgres adapter.
type paymentRecord struct {
	ID          int64      `gorm:"primaryKey;column:id"`
	OrderID     int64      `gorm:"column:order_id;index:idx_payments_order_status"`
	AmountCents int64      `gorm:"column:amount_cents"`
	Method      string     `gorm:"column:method;type:varchar(16)"`
	Status      string     `gorm:"column:status;type:varchar(16);index:idx_payments_order_status"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (paymentRecord) TableName() string { return "payments" }
