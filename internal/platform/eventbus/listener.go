package eventbus

import (
	"context"
	"fmt"

	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

// On subscribes a callback typed to a single event variant.
func On[E events.Event](b *Bus, name string, fn func(ctx context.Context, ev E) error) {
	var zero E
	b.Subscribe(zero.Type(), typedListener[E]{name: name, fn: fn})
}

type typedListener[E events.Event] struct {
	name string
	fn   func(ctx context.Context, ev E) error
}

func (l typedListener[E]) Name() string { return l.name }

func (l typedListener[E]) Handle(ctx context.Context, ev events.Event) error {
	typed, ok := ev.(E)
	if !ok {
		return fmt.Errorf("listener %s: unexpected event %T", l.name, ev)
	}
	return l.fn(ctx, typed)
}
