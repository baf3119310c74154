package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	record := toRecord(payment)
	record.ID = 0
	if err := tx.DB(ctx, r.db).Create(&record).Error; err != nil {
		return nil, err
	}
	return toDomain(record), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record paymentRecord
	if err := tx.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(record), nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []paymentRecord
	if err := tx.DB(ctx, r.db).Where("order_id = ?", orderID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Payment, 0, len(records))
	for _, record := range records {
		out = append(out, toDomain(record))
	}
	return out, nil
}

func (r *Repository) ExistsByOrderAndStatus(ctx context.Context, orderID int64, status domain.Status) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := tx.DB(ctx, r.db).Model(&paymentRecord{}).
		Where("order_id = ? AND status = ?", orderID, string(status)).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Complete(ctx context.Context, id int64, method domain.Method, completedAt time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := tx.DB(ctx, r.db).Model(&paymentRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]any{
			"method":       string(method),
			"status":       string(domain.StatusCompleted),
			"completed_at": completedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r.db == nil {
		return errors.New("postgres payment repository not configured")
	}
	return nil
}

func toRecord(p *domain.Payment) paymentRecord {
	return paymentRecord{
		ID:          p.ID,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
		Method:      string(p.Method),
		Status:      string(p.Status),
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func toDomain(record paymentRecord) *domain.Payment {
	p := &domain.Payment{
		ID:          record.ID,
		OrderID:     record.OrderID,
		AmountCents: record.AmountCents,
		Method:      domain.Method(record.Method),
		Status:      domain.Status(record.Status),
		CreatedAt:   record.CreatedAt.UTC(),
	}
	if record.CompletedAt != nil {
		at := record.CompletedAt.UTC()
		p.CompletedAt = &at
	}
	return p
}
