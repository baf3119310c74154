//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/migrations"
	platformpostgres "github.com/Apurer/breakfast-erp/internal/platform/postgres"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))
	return db
}

func newOrder(t *testing.T, orderNo string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(orderNo, "A3", []domain.Item{
		{ProductID: 1, ProductName: "Ham Toast", Quantity: 2, UnitPriceCents: 4500},
		{ProductID: 2, ProductName: "Black Tea", Quantity: 1, UnitPriceCents: 2500},
	}, time.Now())
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	saved, err := repo.Create(ctx, newOrder(t, "ORD-1"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", got.OrderNo)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)
	assert.Equal(t, int64(11500), got.TotalCents)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Black Tea", got.Items[1].ProductName)

	_, err = repo.GetByID(ctx, 9999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateStatusIsConditional(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	saved, err := repo.Create(ctx, newOrder(t, "ORD-1"))
	require.NoError(t, err)

	rows, err := repo.UpdateStatus(ctx, saved.ID, domain.StatusPendingPayment, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.UpdateStatus(ctx, saved.ID, domain.StatusPendingPayment, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, rows)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func TestRepository_ListFiltersByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	first, err := repo.Create(ctx, newOrder(t, "ORD-1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t, "ORD-2"))
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, first.ID, domain.StatusPendingPayment, domain.StatusCancelled)
	require.NoError(t, err)

	pending, err := repo.List(ctx, domain.StatusPendingPayment, projection.PageQuery{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "ORD-2", pending.Items[0].OrderNo)

	all, err := repo.List(ctx, "", projection.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, "ORD-2", all.Items[0].OrderNo)
}

func TestIdempotencyStore_ReserveCompleteRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewIdempotencyStore(db)

	record, created, err := store.Reserve(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	require.True(t, created)
	assert.Zero(t, record.OrderID)

	again, created, err := store.Reserve(ctx, "key-1", "hash-b")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "hash-a", again.RequestHash)

	require.NoError(t, store.Complete(ctx, "key-1", 42))
	require.NoError(t, store.Release(ctx, "key-1"), "completed keys survive release")
	bound, created, err := store.Reserve(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(42), bound.OrderID)

	_, _, err = store.Reserve(ctx, "key-2", "hash-c")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key-2"))
	_, created, err = store.Reserve(ctx, "key-2", "hash-d")
	require.NoError(t, err)
	assert.True(t, created)

	require.ErrorIs(t, store.Complete(ctx, "missing", 1), ports.ErrNotFound)
}
