package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. Items are
// stored as a JSON document on the row.
type orderRecord struct {
	ID         int64        `gorm:"primaryKey;column:id"`
	OrderNo    string       `gorm:"column:order_no;size:32;uniqueIndex"`
	TableNo    string       `gorm:"column:table_no;size:16"`
	Status     string       `gorm:"column:status;type:varchar(32);index"`
	Items      []itemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	TotalCents int64        `gorm:"column:total_cents"`
	CreatedAt  time.Time    `gorm:"column:created_at;index"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type itemRecord struct {
	ProductID      int64  `json:"productId"`
	ProductName    string `json:"productName"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, err
	}
	return toDomain(record), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := tx.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(record), nil
}

// List returns orders newest first.
func (r *Repository) List(ctx context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	page = page.Normalize()
	query := func() *gorm.DB {
		q := tx.DB(ctx, r.db).Model(&orderRecord{})
		if status != "" {
			q = q.Where("status = ?", string(status))
		}
		return q
	}
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	var records []orderRecord
	if err := query().Order("id DESC").Offset(page.Offset()).Limit(page.Size).Find(&records).Error; err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	items := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		items = append(items, toDomain(record))
	}
	return projection.NewPage(items, total, page), nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:         order.ID,
		OrderNo:    order.OrderNo,
		TableNo:    order.TableNo,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt,
		Items:      make([]itemRecord, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, itemRecord{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return record
}

func toDomain(record orderRecord) *domain.Order {
	order := &domain.Order{
		ID:         record.ID,
		OrderNo:    record.OrderNo,
		TableNo:    record.TableNo,
		Status:     domain.Status(record.Status),
		TotalCents: record.TotalCents,
		CreatedAt:  record.CreatedAt.UTC(),
	}
	for _, item := range record.Items {
		order.Items = append(order.Items, domain.Item{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return order
}
