package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(*order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone.ID = r.nextID
	r.orders[clone.ID] = clone
	out := cloneOrder(clone)
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (r *Repository) List(_ context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		clone := cloneOrder(order)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return projection.Slice(list, page), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, from, to domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return 0, nil
	}
	order.Status = to
	r.orders[id] = order
	return 1, nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.Item(nil), o.Items...)
	return o
}
