package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
)

type Option func(*Service)

// WithIdempotencyStore enables replay of submissions that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

type normalizedSubmitOrder struct {
	TableNo string            `json:"tableNo"`
	Items   []ports.ItemInput `json:"items"`
}

// fingerprintSubmitOrder hashes the request payload, excluding the idempotency key.
func fingerprintSubmitOrder(input ports.SubmitOrderInput) (string, error) {
	payload, err := json.Marshal(normalizedSubmitOrder{
		TableNo: strings.TrimSpace(input.TableNo),
		Items:   input.Items,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// submitIdempotent replays the order bound to input.IdempotencyKey, or
// reserves the key and runs submit. A failed submit releases the key so the
// client can retry.
func (s *Service) submitIdempotent(ctx context.Context, input ports.SubmitOrderInput, submit func() (*domain.Order, error)) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	hash, err := fingerprintSubmitOrder(input)
	if err != nil {
		return nil, err
	}
	record, created, err := s.idempotency.Reserve(ctx, key, hash)
	if err != nil {
		return nil, err
	}
	if !created {
		switch {
		case record.RequestHash != hash:
			return nil, fmt.Errorf("%w: idempotency key %q was used with a different request", ErrConflict, key)
		case record.OrderID == 0:
			return nil, fmt.Errorf("%w: request with idempotency key %q is still in progress", ErrConflict, key)
		}
		order, err := s.repo.GetByID(ctx, record.OrderID)
		if err != nil {
			return nil, mapError(err)
		}
		return order, nil
	}
	order, err := submit()
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			return nil, errors.Join(err, releaseErr)
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, key, order.ID); err != nil {
		return nil, fmt.Errorf("order %d stored but idempotency key not recorded: %w", order.ID, err)
	}
	return order, nil
}
