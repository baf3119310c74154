package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/memory"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
)

func newIdempotentService() (*Service, *memory.Repository, *capturePublisher, *memory.IdempotencyStore) {
	svc, repo, pub := newTestService()
	keys := memory.NewIdempotencyStore()
	WithIdempotencyStore(keys)(svc)
	return svc, repo, pub, keys
}

func TestSubmitOrder_ReplaysSameKey(t *testing.T) {
	svc, _, pub, _ := newIdempotentService()
	ctx := context.Background()
	input := ports.SubmitOrderInput{
		IdempotencyKey: "tablet-7-0001",
		TableNo:        "A3",
		Items:          []ports.ItemInput{{ProductID: 1, Quantity: 2}},
	}

	first, err := svc.SubmitOrder(ctx, input)
	require.NoError(t, err)
	second, err := svc.SubmitOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OrderNo, second.OrderNo)
	assert.Len(t, pub.events, 1)
}

func TestSubmitOrder_KeyReusedWithDifferentPayloadConflicts(t *testing.T) {
	svc, _, _, _ := newIdempotentService()
	ctx := context.Background()

	_, err := svc.SubmitOrder(ctx, ports.SubmitOrderInput{
		IdempotencyKey: "tablet-7-0001",
		Items:          []ports.ItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, ports.SubmitOrderInput{
		IdempotencyKey: "tablet-7-0001",
		Items:          []ports.ItemInput{{ProductID: 2, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSubmitOrder_FailedSubmissionReleasesKey(t *testing.T) {
	svc, _, pub, _ := newIdempotentService()
	ctx := context.Background()
	input := ports.SubmitOrderInput{
		IdempotencyKey: "tablet-7-0002",
		Items:          []ports.ItemInput{{ProductID: 3, Quantity: 1}},
	}

	_, err := svc.SubmitOrder(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SubmitOrder(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput, "retry runs again instead of reporting in-progress")
	assert.Empty(t, pub.events)
}

func TestSubmitOrder_InFlightKeyConflicts(t *testing.T) {
	svc, _, _, keys := newIdempotentService()
	ctx := context.Background()
	input := ports.SubmitOrderInput{
		IdempotencyKey: "tablet-7-0003",
		Items:          []ports.ItemInput{{ProductID: 1, Quantity: 1}},
	}
	hash, err := fingerprintSubmitOrder(input)
	require.NoError(t, err)
	_, created, err := keys.Reserve(ctx, input.IdempotencyKey, hash)
	require.NoError(t, err)
	require.True(t, created)

	_, err = svc.SubmitOrder(ctx, input)
	require.ErrorIs(t, err, ErrConflict)
}

func TestSubmitOrder_WithoutKeyCreatesEachTime(t *testing.T) {
	svc, _, pub, _ := newIdempotentService()
	ctx := context.Background()
	input := ports.SubmitOrderInput{Items: []ports.ItemInput{{ProductID: 1, Quantity: 1}}}

	first, err := svc.SubmitOrder(ctx, input)
	require.NoError(t, err)
	second, err := svc.SubmitOrder(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, pub.events, 2)
}
