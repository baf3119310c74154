package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockingTask(started chan<- struct{}, release <-chan struct{}, done *atomic.Int32) Task {
	return func(ctx context.Context) {
		if started != nil {
			started <- struct{}{}
		}
		<-release
		done.Add(1)
	}
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	pool := New(DefaultConfig())
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(context.Context) {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(20), count.Load())
}

func TestPool_GrowsThenRejectsWhenSaturated(t *testing.T) {
	pool := New(Config{CoreWorkers: 1, MaxWorkers: 2, QueueSize: 1, KeepAlive: time.Minute, ShutdownGrace: time.Second})
	release := make(chan struct{})
	started := make(chan struct{}, 3)
	var done atomic.Int32

	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))
	<-started

	// core worker busy: fills the single queue slot
	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))

	// queue full: a surge worker takes this one directly
	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))
	<-started
	assert.Equal(t, 2, pool.Stats().Workers)
	assert.Equal(t, 1, pool.Stats().Queued)

	err := pool.Submit(func(context.Context) { done.Add(1) })
	require.ErrorIs(t, err, ErrSaturated)

	close(release)
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(3), done.Load())
}

func TestPool_SurgeWorkerRetiresAfterKeepAlive(t *testing.T) {
	pool := New(Config{CoreWorkers: 1, MaxWorkers: 2, QueueSize: 1, KeepAlive: 20 * time.Millisecond, ShutdownGrace: time.Second})
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	release := make(chan struct{})
	started := make(chan struct{}, 3)
	var done atomic.Int32

	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))
	<-started
	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))
	require.NoError(t, pool.Submit(blockingTask(started, release, &done)))
	<-started
	assert.Equal(t, 2, pool.Stats().Workers)

	close(release)
	require.Eventually(t, func() bool { return done.Load() == 3 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return pool.Stats().Workers == 1 }, time.Second, 5*time.Millisecond)
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	pool := New(Config{CoreWorkers: 1, MaxWorkers: 1, QueueSize: 10, ShutdownGrace: time.Second})

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func(context.Context) {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}))
	}
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(5), count.Load())

	require.ErrorIs(t, pool.Submit(func(context.Context) {}), ErrClosed)
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_ShutdownCancelsAfterGrace(t *testing.T) {
	pool := New(Config{CoreWorkers: 1, MaxWorkers: 1, QueueSize: 5, ShutdownGrace: 30 * time.Millisecond})

	started := make(chan struct{})
	var cancelled, secondRan atomic.Bool
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	}))
	<-started
	require.NoError(t, pool.Submit(func(context.Context) { secondRan.Store(true) }))

	err := pool.Shutdown(context.Background())
	require.ErrorIs(t, err, ErrShutdownTimeout)
	require.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return pool.Stats().Workers == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, secondRan.Load())
}

func TestPool_RecoversPanickingTask(t *testing.T) {
	pool := New(Config{CoreWorkers: 1, MaxWorkers: 1, QueueSize: 2, ShutdownGrace: time.Second})

	var ran atomic.Bool
	require.NoError(t, pool.Submit(func(context.Context) { panic("boom") }))
	require.NoError(t, pool.Submit(func(context.Context) { ran.Store(true) }))
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.True(t, ran.Load())
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{CoreWorkers: 4, MaxWorkers: 2}.normalized()
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, DefaultKeepAlive, cfg.KeepAlive)
	assert.Equal(t, DefaultShutdownGrace, cfg.ShutdownGrace)

	assert.Equal(t, DefaultCoreWorkers, Config{}.normalized().CoreWorkers)
}
