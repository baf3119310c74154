package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory payment store.
type Repository struct {
	mu       sync.RWMutex
	payments map[int64]domain.Payment
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{payments: map[int64]domain.Payment{}}
}

func (r *Repository) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := clonePayment(*payment)
	clone.ID = r.nextID
	r.payments[clone.ID] = clone
	out := clonePayment(clone)
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := clonePayment(payment)
	return &out, nil
}

func (r *Repository) ListByOrder(_ context.Context, orderID int64) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Payment, 0)
	for _, payment := range r.payments {
		if payment.OrderID != orderID {
			continue
		}
		clone := clonePayment(payment)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) ExistsByOrderAndStatus(_ context.Context, orderID int64, status domain.Status) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, payment := range r.payments {
		if payment.OrderID == orderID && payment.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) Complete(_ context.Context, id int64, method domain.Method, completedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok || payment.Status != domain.StatusPending {
		return 0, nil
	}
	payment.Method = method
	payment.Status = domain.StatusCompleted
	payment.CompletedAt = &completedAt
	r.payments[id] = payment
	return 1, nil
}

func clonePayment(p domain.Payment) domain.Payment {
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		p.CompletedAt = &at
	}
	return p
}
