package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
)

var ErrNotFound = errors.New("payment not found")

// Repository persists payments.
type Repository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	ExistsByOrderAndStatus(ctx context.Context, orderID int64, status domain.Status) (bool, error)
	// Complete settles the payment only while it is still PENDING and reports
	// the rows touched.
	Complete(ctx context.Context, id int64, method domain.Method, completedAt time.Time) (int64, error)
}
