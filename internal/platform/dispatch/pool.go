// Package dispatch runs fire-and-forget tasks on a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrSaturated is returned when the queue is full and no more workers may be started.
	ErrSaturated = errors.New("dispatch pool saturated")
	// ErrClosed is returned for submissions after Shutdown.
	ErrClosed = errors.New("dispatch pool closed")
	// ErrShutdownTimeout is returned when tasks were still pending once the grace period elapsed.
	ErrShutdownTimeout = errors.New("dispatch pool shutdown grace period elapsed")
)

// Task is a unit of work executed on a pool worker. The context is cancelled
// when shutdown gives up waiting.
type Task func(ctx context.Context)

// Stats is a point-in-time view of the pool.
type Stats struct {
	Workers int
	Queued  int
}

// Pool keeps CoreWorkers goroutines reading a bounded FIFO queue. When the
// queue is full it starts surge workers up to MaxWorkers; beyond that
// submissions are rejected instead of blocking the caller.
type Pool struct {
	cfg     Config
	logger  *slog.Logger
	metrics poolMetrics

	mu     sync.RWMutex
	closed bool
	queue  chan Task

	workers atomic.Int32
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Pool)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(p *Pool) {
		p.metrics = newPoolMetrics(m)
	}
}

// New starts the core workers and returns a ready pool.
func New(cfg Config, opts ...Option) *Pool {
	cfg = cfg.normalized()
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		queue:  make(chan Task, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	for i := 0; i < cfg.CoreWorkers; i++ {
		p.workers.Add(1)
		p.wg.Add(1)
		go p.work(nil, false)
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("dispatch: nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.record(p.ctx, p.metrics.rejected, "closed")
		return ErrClosed
	}
	select {
	case p.queue <- task:
		p.metrics.record(p.ctx, p.metrics.submitted, "queued")
		return nil
	default:
	}
	if p.reserveWorker() {
		p.wg.Add(1)
		go p.work(task, true)
		p.metrics.record(p.ctx, p.metrics.submitted, "surge")
		return nil
	}
	p.metrics.record(p.ctx, p.metrics.rejected, "saturated")
	return ErrSaturated
}

// Shutdown stops accepting work and waits for queued and running tasks. Once
// the grace period or ctx expires the remaining tasks are cancelled and
// ErrShutdownTimeout is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	grace := time.NewTimer(p.cfg.ShutdownGrace)
	defer grace.Stop()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("dispatch pool drained")
		return nil
	case <-grace.C:
	case <-ctx.Done():
	}
	pending := len(p.queue)
	p.cancel()
	p.logger.Warn("dispatch pool shutdown timed out, cancelling remaining tasks",
		slog.Int("queued", pending),
		slog.Int("workers", int(p.workers.Load())),
	)
	return fmt.Errorf("%w: %d tasks still queued", ErrShutdownTimeout, pending)
}

// Stats reports the live worker count and queue depth.
func (p *Pool) Stats() Stats {
	return Stats{Workers: int(p.workers.Load()), Queued: len(p.queue)}
}

func (p *Pool) reserveWorker() bool {
	for {
		n := p.workers.Load()
		if int(n) >= p.cfg.MaxWorkers {
			return false
		}
		if p.workers.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (p *Pool) work(first Task, surge bool) {
	defer p.wg.Done()
	defer p.workers.Add(-1)

	if first != nil {
		p.run(first)
	}
	if !surge {
		for task := range p.queue {
			p.run(task)
		}
		return
	}

	idle := time.NewTimer(p.cfg.KeepAlive)
	defer idle.Stop()
	for {
		select {
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(task)
			idle.Reset(p.cfg.KeepAlive)
		case <-idle.C:
			return
		}
	}
}

func (p *Pool) run(task Task) {
	if p.ctx.Err() != nil {
		p.metrics.record(p.ctx, p.metrics.dropped, "cancelled")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.metrics.record(context.Background(), p.metrics.panicked, "panic")
			p.logger.Error("dispatch task panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()
	task(p.ctx)
	p.metrics.record(p.ctx, p.metrics.completed, "ok")
}

type poolMetrics struct {
	submitted metric.Int64Counter
	rejected  metric.Int64Counter
	completed metric.Int64Counter
	dropped   metric.Int64Counter
	panicked  metric.Int64Counter
}

func newPoolMetrics(m metric.Meter) poolMetrics {
	if m == nil {
		return poolMetrics{}
	}
	submitted, _ := m.Int64Counter("dispatch.pool.tasks_submitted", metric.WithDescription("Tasks accepted by the dispatch pool"))
	rejected, _ := m.Int64Counter("dispatch.pool.tasks_rejected", metric.WithDescription("Tasks rejected by the dispatch pool"))
	completed, _ := m.Int64Counter("dispatch.pool.tasks_completed", metric.WithDescription("Tasks run to completion"))
	dropped, _ := m.Int64Counter("dispatch.pool.tasks_dropped", metric.WithDescription("Queued tasks dropped at shutdown"))
	panicked, _ := m.Int64Counter("dispatch.pool.tasks_panicked", metric.WithDescription("Tasks that panicked"))
	return poolMetrics{submitted: submitted, rejected: rejected, completed: completed, dropped: dropped, panicked: panicked}
}

func (m poolMetrics) record(ctx context.Context, counter metric.Int64Counter, outcome string) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
