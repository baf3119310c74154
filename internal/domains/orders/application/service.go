package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

// Service orchestrates order use cases.
type Service struct {
	repo        ports.Repository
	catalog     ports.ProductCatalog
	publisher   events.Publisher
	idempotency ports.IdempotencyStore
	now         func() time.Time
}

func NewService(repo ports.Repository, catalog ports.ProductCatalog, publisher events.Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	s := &Service{repo: repo, catalog: catalog, publisher: publisher, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitOrder prices the items from the catalog, stores the order as
// PENDING_PAYMENT and publishes OrderSubmitted. A repeated idempotency key
// returns the original order without publishing again.
func (s *Service) SubmitOrder(ctx context.Context, input ports.SubmitOrderInput) (*domain.Order, error) {
	if s.idempotency != nil && strings.TrimSpace(input.IdempotencyKey) != "" {
		return s.submitIdempotent(ctx, input, func() (*domain.Order, error) {
			return s.submit(ctx, input)
		})
	}
	return s.submit(ctx, input)
}

func (s *Service) submit(ctx context.Context, input ports.SubmitOrderInput) (*domain.Order, error) {
	items := make([]domain.Item, 0, len(input.Items))
	for _, in := range input.Items {
		item := domain.Item{ProductID: in.ProductID, Quantity: in.Quantity}
		if in.ProductID > 0 {
			product, err := s.catalog.Product(ctx, in.ProductID)
			if err != nil {
				return nil, mapError(err)
			}
			if !product.OnSale {
				return nil, fmt.Errorf("%w: product %d is off sale", ErrInvalidInput, in.ProductID)
			}
			item.ProductName = product.Name
			item.UnitPriceCents = product.PriceCents
		}
		items = append(items, item)
	}
	now := s.now()
	order, err := domain.NewOrder(newOrderNo(now), input.TableNo, items, now)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publisher.Publish(ctx, events.NewOrderSubmitted(saved.ID, saved.OrderNo, saved.TotalCents))
	return saved, nil
}

// CancelOrder cancels a pending order and publishes OrderCancelled.
func (s *Service) CancelOrder(ctx context.Context, id int64, reason string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	from := order.Status
	if err := order.Cancel(); err != nil {
		return nil, mapError(err)
	}
	rows, err := s.repo.UpdateStatus(ctx, order.ID, from, order.Status)
	if err != nil {
		return nil, mapError(err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: order %d changed status concurrently", ErrConflict, id)
	}
	s.publisher.Publish(ctx, events.NewOrderCancelled(order.ID, order.OrderNo, strings.TrimSpace(reason)))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error) {
	if status != "" && !status.Valid() {
		return projection.Page[*domain.Order]{}, mapError(domain.ErrInvalidStatus)
	}
	result, err := s.repo.List(ctx, status, page.Normalize())
	if err != nil {
		return projection.Page[*domain.Order]{}, mapError(err)
	}
	return result, nil
}

// newOrderNo builds a human-readable order number such as ORD20261015-3F2A9C1B.
func newOrderNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD" + now.UTC().Format("20060102") + "-" + suffix
}

var _ ports.Service = (*Service)(nil)
