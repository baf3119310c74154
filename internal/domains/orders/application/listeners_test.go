package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

func seedOrder(t *testing.T, repo *memory.Repository) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("ORD-1", "A3", []domain.Item{{ProductID: 1, Quantity: 1, UnitPriceCents: 4500}}, time.Now())
	require.NoError(t, err)
	saved, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestMarkPaidOnPaymentCompleted(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	order := seedOrder(t, repo)
	listeners := NewListeners(repo, nil)

	ev := events.NewPaymentCompleted(5, order.ID, 4500, "CASH")
	require.NoError(t, listeners.MarkPaidOnPaymentCompleted(ctx, ev))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	require.NoError(t, listeners.MarkPaidOnPaymentCompleted(ctx, ev), "redelivery is a skip")
	got, err = repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func TestMarkPaidOnPaymentCompleted_SkipsMissingAndCancelledOrders(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	order := seedOrder(t, repo)
	_, err := repo.UpdateStatus(ctx, order.ID, domain.StatusPendingPayment, domain.StatusCancelled)
	require.NoError(t, err)
	listeners := NewListeners(repo, nil)

	require.NoError(t, listeners.MarkPaidOnPaymentCompleted(ctx, events.NewPaymentCompleted(5, 404, 100, "CARD")))
	require.NoError(t, listeners.MarkPaidOnPaymentCompleted(ctx, events.NewPaymentCompleted(6, order.ID, 4500, "CARD")))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

type failingRepo struct {
	*memory.Repository
}

func (failingRepo) GetByID(context.Context, int64) (*domain.Order, error) {
	return nil, errors.New("db down")
}

func TestMarkPaidOnPaymentCompleted_ReturnsStoreErrors(t *testing.T) {
	listeners := NewListeners(failingRepo{memory.NewRepository()}, nil)

	err := listeners.MarkPaidOnPaymentCompleted(context.Background(), events.NewPaymentCompleted(5, 1, 100, "CASH"))
	require.EqualError(t, err, "db down")
}
