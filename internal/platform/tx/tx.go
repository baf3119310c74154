// Package tx scopes a unit of work to a single database transaction.
package tx

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Runner executes fn inside a transaction, committing on a nil return and
// rolling back otherwise.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ctxKey struct{}

// Gorm opens transactions on a GORM handle.
type Gorm struct {
	db *gorm.DB
}

var _ Runner = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// WithinTx joins a transaction already carried by ctx instead of nesting.
func (g *Gorm) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if g == nil || g.db == nil {
		return errors.New("tx: gorm runner not configured")
	}
	if _, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, ctxKey{}, tx))
	})
}

// DB returns the transaction bound to ctx, or fallback when there is none.
func DB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// Noop runs fn directly. Used with the in-memory stores.
var Noop Runner = noop{}

type noop struct{}

func (noop) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
