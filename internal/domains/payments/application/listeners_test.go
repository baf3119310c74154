package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

func TestCreatePendingOnOrderSubmitted(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	listeners := NewListeners(repo, nil)
	ev := events.NewOrderSubmitted(10, "ORD20261015-0000ABCD", 11500)

	require.NoError(t, listeners.CreatePendingOnOrderSubmitted(ctx, ev))
	require.NoError(t, listeners.CreatePendingOnOrderSubmitted(ctx, ev), "redelivery is a skip")

	payments, err := repo.ListByOrder(ctx, 10)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.StatusPending, payments[0].Status)
	assert.Equal(t, int64(11500), payments[0].AmountCents)
}

func TestCreatePendingOnOrderSubmitted_CreatesAgainAfterCompletion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	listeners := NewListeners(repo, nil)
	ev := events.NewOrderSubmitted(10, "ORD-1", 500)

	require.NoError(t, listeners.CreatePendingOnOrderSubmitted(ctx, ev))
	payments, err := repo.ListByOrder(ctx, 10)
	require.NoError(t, err)
	_, err = NewService(repo, nil).CompletePayment(ctx, payments[0].ID, "CASH")
	require.NoError(t, err)

	require.NoError(t, listeners.CreatePendingOnOrderSubmitted(ctx, ev))
	payments, err = repo.ListByOrder(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

// gatedRepo holds every existence check until n callers have made one.
type gatedRepo struct {
	*memory.Repository
	checked sync.WaitGroup
}

func (g *gatedRepo) ExistsByOrderAndStatus(ctx context.Context, orderID int64, status domain.Status) (bool, error) {
	exists, err := g.Repository.ExistsByOrderAndStatus(ctx, orderID, status)
	g.checked.Done()
	g.checked.Wait()
	return exists, err
}

// Two deliveries that both pass the existence check before either inserts
// produce two pending payments; the check is not atomic with the insert.
func TestCreatePendingOnOrderSubmitted_ConcurrentDeliveriesCanDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := &gatedRepo{Repository: memory.NewRepository()}
	repo.checked.Add(2)
	listeners := NewListeners(repo, nil)
	ev := events.NewOrderSubmitted(10, "ORD-1", 500)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, listeners.CreatePendingOnOrderSubmitted(ctx, ev))
		}()
	}
	wg.Wait()

	payments, err := repo.ListByOrder(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
