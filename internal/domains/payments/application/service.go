package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

// Service exposes payment use cases.
type Service struct {
	repo      ports.Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo ports.Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{repo: repo, publisher: publisher, now: time.Now}
}

// CompletePayment settles a pending payment and publishes PaymentCompleted.
func (s *Service) CompletePayment(ctx context.Context, id int64, method string) (*domain.Payment, error) {
	m, err := domain.ParseMethod(method)
	if err != nil {
		return nil, mapError(err)
	}
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := payment.Complete(m, s.now()); err != nil {
		return nil, mapError(err)
	}
	rows, err := s.repo.Complete(ctx, payment.ID, payment.Method, *payment.CompletedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: payment %d changed status concurrently", ErrConflict, id)
	}
	s.publisher.Publish(ctx, events.NewPaymentCompleted(payment.ID, payment.OrderID, payment.AmountCents, string(payment.Method)))
	return payment, nil
}

func (s *Service) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return payment, nil
}

func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return payments, nil
}

var _ ports.Service = (*Service)(nil)
