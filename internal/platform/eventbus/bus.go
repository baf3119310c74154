// Package eventbus routes published domain events to the listeners
// subscribed to their type, one pool task per listener.
package eventbus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/breakfast-erp/internal/platform/dispatch"
	"github.com/Apurer/breakfast-erp/internal/platform/tx"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

const tracerName = "github.com/Apurer/breakfast-erp/internal/platform/eventbus"

// Listener reacts to one event type. Handle runs on a pool worker inside its
// own transaction.
type Listener interface {
	Name() string
	Handle(ctx context.Context, ev events.Event) error
}

// Submitter is the part of the dispatch pool the bus depends on.
type Submitter interface {
	Submit(task dispatch.Task) error
}

// Bus is the publish/subscribe registry shared by write paths and listeners.
type Bus struct {
	pool    Submitter
	runner  tx.Runner
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics busMetrics

	mu        sync.RWMutex
	listeners map[events.Type][]Listener
}

var _ events.Publisher = (*Bus)(nil)

type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(b *Bus) {
		if tr != nil {
			b.tracer = tr
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(b *Bus) {
		b.metrics = newBusMetrics(m)
	}
}

// WithTxRunner sets the transaction scope wrapped around each listener call.
func WithTxRunner(r tx.Runner) Option {
	return func(b *Bus) {
		if r != nil {
			b.runner = r
		}
	}
}

func New(pool Submitter, opts ...Option) *Bus {
	b := &Bus{
		pool:      pool,
		runner:    tx.Noop,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    nooptrace.NewTracerProvider().Tracer(tracerName),
		listeners: map[events.Type][]Listener{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Subscribe appends l to the listeners of t. Registration order is kept but
// carries no meaning: listeners run independently.
func (b *Bus) Subscribe(t events.Type, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[t] = append(b.listeners[t], l)
	b.logger.Debug("listener subscribed", slog.String("event.type", string(t)), slog.String("listener", l.Name()))
}

// Listeners returns the names subscribed to t in registration order.
func (b *Bus) Listeners(t events.Type) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.listeners[t]))
	for _, l := range b.listeners[t] {
		names = append(names, l.Name())
	}
	return names
}

// Publish submits one task per matching listener and returns immediately.
// Rejected submissions are logged and the event is lost for that listener.
func (b *Bus) Publish(ctx context.Context, ev events.Event) {
	if ev == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.LogAttrs(ctx, slog.LevelError, "event publish panicked",
				slog.String("event.id", ev.Meta().ID()),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	b.mu.RLock()
	listeners := slices.Clone(b.listeners[ev.Type()])
	b.mu.RUnlock()

	attrs := []slog.Attr{
		slog.String("event.id", ev.Meta().ID()),
		slog.String("event.type", string(ev.Type())),
		slog.String("event.source", ev.Meta().SourceModule()),
	}
	if len(listeners) == 0 {
		b.logger.LogAttrs(ctx, slog.LevelDebug, "no listeners for event", attrs...)
		return
	}

	parent := trace.SpanContextFromContext(ctx)
	for _, l := range listeners {
		err := b.pool.Submit(func(workerCtx context.Context) {
			b.deliver(trace.ContextWithSpanContext(workerCtx, parent), ev, l)
		})
		if err != nil {
			b.metrics.record(ctx, b.metrics.rejected, ev.Type(), l.Name())
			b.logger.LogAttrs(ctx, slog.LevelWarn, "event dispatch rejected, dropping event for listener",
				append(attrs, slog.String("listener", l.Name()), slog.String("error", err.Error()))...)
			continue
		}
		b.metrics.record(ctx, b.metrics.dispatched, ev.Type(), l.Name())
	}
}

func (b *Bus) deliver(ctx context.Context, ev events.Event, l Listener) {
	ctx, span := b.tracer.Start(ctx, "eventbus.listener "+l.Name(), trace.WithAttributes(
		attribute.String("event.id", ev.Meta().ID()),
		attribute.String("event.type", string(ev.Type())),
		attribute.String("listener", l.Name()),
	))
	defer span.End()

	err := b.runner.WithinTx(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("listener panicked: %v", r)
			}
		}()
		return l.Handle(ctx, ev)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.metrics.record(ctx, b.metrics.failed, ev.Type(), l.Name())
		b.logger.LogAttrs(ctx, slog.LevelError, "event listener failed",
			slog.String("event.id", ev.Meta().ID()),
			slog.String("event.type", string(ev.Type())),
			slog.String("listener", l.Name()),
			slog.String("error", err.Error()),
		)
		return
	}
	b.metrics.record(ctx, b.metrics.handled, ev.Type(), l.Name())
}

type busMetrics struct {
	dispatched metric.Int64Counter
	rejected   metric.Int64Counter
	handled    metric.Int64Counter
	failed     metric.Int64Counter
}

func newBusMetrics(m metric.Meter) busMetrics {
	if m == nil {
		return busMetrics{}
	}
	dispatched, _ := m.Int64Counter("eventbus.deliveries_dispatched", metric.WithDescription("Listener deliveries handed to the pool"))
	rejected, _ := m.Int64Counter("eventbus.deliveries_rejected", metric.WithDescription("Listener deliveries dropped at submission"))
	handled, _ := m.Int64Counter("eventbus.deliveries_handled", metric.WithDescription("Listener deliveries committed"))
	failed, _ := m.Int64Counter("eventbus.deliveries_failed", metric.WithDescription("Listener deliveries rolled back"))
	return busMetrics{dispatched: dispatched, rejected: rejected, handled: handled, failed: failed}
}

func (m busMetrics) record(ctx context.Context, counter metric.Int64Counter, t events.Type, listener string) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event.type", string(t)),
			attribute.String("listener", listener),
		))
	}
}
