package ports

import (
	"context"
	"time"
)

// IdempotencyRecord ties a client-supplied key to the request it first
// arrived with. OrderID is zero while that request is still being processed.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retried submissions can be replayed.
type IdempotencyStore interface {
	// Reserve claims key for requestHash. When the key is already taken the
	// stored record is returned with created=false.
	Reserve(ctx context.Context, key, requestHash string) (record *IdempotencyRecord, created bool, err error)
	// Complete binds a reserved key to the order it produced.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops a reservation that never produced an order.
	Release(ctx context.Context, key string) error
}
