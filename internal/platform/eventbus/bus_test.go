package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/breakfast-erp/internal/platform/dispatch"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

// inlineSubmitter runs tasks on the caller goroutine, rejecting the ones listed.
type inlineSubmitter struct {
	mu      sync.Mutex
	calls   int
	rejects map[int]bool
}

func (s *inlineSubmitter) Submit(task dispatch.Task) error {
	s.mu.Lock()
	s.calls++
	reject := s.rejects[s.calls]
	s.mu.Unlock()
	if reject {
		return dispatch.ErrSaturated
	}
	task(context.Background())
	return nil
}

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls.Add(1)
	return fn(ctx)
}

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func renamed() events.CategoryRenamed {
	return events.NewCategoryRenamed(7, events.CategorySnapshot{Name: "Breakfast"}, events.CategorySnapshot{Name: "Morning Set"})
}

func TestPublish_FansOutToMatchingListeners(t *testing.T) {
	runner := &countingRunner{}
	bus := New(&inlineSubmitter{}, WithTxRunner(runner))
	rec := &recorder{}

	On(bus, "first", func(_ context.Context, ev events.CategoryRenamed) error {
		rec.add("first")
		assert.Equal(t, int64(7), ev.CategoryID)
		return nil
	})
	On(bus, "second", func(_ context.Context, _ events.CategoryRenamed) error {
		rec.add("second")
		return nil
	})
	On(bus, "other", func(_ context.Context, _ events.ProductChanged) error {
		rec.add("other")
		return nil
	})

	bus.Publish(context.Background(), renamed())

	assert.Equal(t, []string{"first", "second"}, rec.list())
	assert.Equal(t, int32(2), runner.calls.Load())
	assert.Equal(t, []string{"first", "second"}, bus.Listeners(events.TypeCategoryRenamed))
}

func TestPublish_ListenerFailureDoesNotAffectSiblings(t *testing.T) {
	bus := New(&inlineSubmitter{})
	rec := &recorder{}

	On(bus, "failing", func(context.Context, events.CategoryRenamed) error {
		return errors.New("store unavailable")
	})
	On(bus, "panicking", func(context.Context, events.CategoryRenamed) error {
		panic("boom")
	})
	On(bus, "healthy", func(context.Context, events.CategoryRenamed) error {
		rec.add("healthy")
		return nil
	})

	require.NotPanics(t, func() { bus.Publish(context.Background(), renamed()) })
	assert.Equal(t, []string{"healthy"}, rec.list())
}

func TestPublish_RejectedSubmissionDropsOnlyThatListener(t *testing.T) {
	bus := New(&inlineSubmitter{rejects: map[int]bool{1: true}})
	rec := &recorder{}

	On(bus, "dropped", func(context.Context, events.CategoryRenamed) error {
		rec.add("dropped")
		return nil
	})
	On(bus, "delivered", func(context.Context, events.CategoryRenamed) error {
		rec.add("delivered")
		return nil
	})

	bus.Publish(context.Background(), renamed())
	assert.Equal(t, []string{"delivered"}, rec.list())
}

func TestPublish_RollsBackFailedListenerTransaction(t *testing.T) {
	var rolledBack atomic.Bool
	runner := runnerFunc(func(ctx context.Context, fn func(context.Context) error) error {
		err := fn(ctx)
		if err != nil {
			rolledBack.Store(true)
		}
		return err
	})
	bus := New(&inlineSubmitter{}, WithTxRunner(runner))
	On(bus, "failing", func(context.Context, events.CategoryRenamed) error {
		return errors.New("constraint violation")
	})

	bus.Publish(context.Background(), renamed())
	assert.True(t, rolledBack.Load())
}

func TestPublish_ReturnsBeforeListenersRun(t *testing.T) {
	pool := dispatch.New(dispatch.DefaultConfig())
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })
	bus := New(pool)

	release := make(chan struct{})
	var handled atomic.Bool
	On(bus, "slow", func(context.Context, events.CategoryRenamed) error {
		<-release
		handled.Store(true)
		return nil
	})

	bus.Publish(context.Background(), renamed())
	assert.False(t, handled.Load())

	close(release)
	require.Eventually(t, handled.Load, time.Second, 5*time.Millisecond)
}

func TestPublish_IgnoresNilAndUnsubscribedEvents(t *testing.T) {
	sub := &inlineSubmitter{}
	bus := New(sub)

	bus.Publish(context.Background(), nil)
	bus.Publish(context.Background(), events.NewOrderCancelled(1, "ORD-1", "walked out"))
	assert.Equal(t, 0, sub.calls)
}

type runnerFunc func(ctx context.Context, fn func(context.Context) error) error

func (f runnerFunc) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return f(ctx, fn)
}
