package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/shared/projection"
)

const tracerName = "github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) SubmitOrder(ctx context.Context, input ports.SubmitOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.SubmitOrder",
		trace.WithAttributes(attribute.String("order.table_no", input.TableNo), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "submitting order", slog.String("order.table_no", input.TableNo), slog.Int("order.items", len(input.Items)))
	result, err := s.inner.SubmitOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit order", slog.String("order.table_no", input.TableNo))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID), attribute.String("order.no", result.OrderNo))
	s.metrics.recordSubmitted(ctx, result.TotalCents)
	s.logInfo(ctx, "order submitted",
		slog.Int64("order.id", result.ID),
		slog.String("order.no", result.OrderNo),
		slog.Int64("order.total_cents", result.TotalCents))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id int64, reason string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", id))
	result, err := s.inner.CancelOrder(ctx, id, reason)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", result.ID), slog.String("order.no", result.OrderNo))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, status domain.Status, page projection.PageQuery) (projection.Page[*domain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders", trace.WithAttributes(attribute.String("order.status", string(status))))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, status, page)
	if err != nil {
		return projection.Page[*domain.Order]{}, s.handleError(ctx, span, err, "failed to list orders", slog.String("order.status", string(status)))
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Total))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersSubmitted metric.Int64Counter
	ordersCancelled metric.Int64Counter
	amountSubmitted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersSubmitted, _ := m.Int64Counter("orders.service.orders_submitted", metric.WithDescription("Number of orders submitted"))
	ordersCancelled, _ := m.Int64Counter("orders.service.orders_cancelled", metric.WithDescription("Number of orders cancelled"))
	amountSubmitted, _ := m.Int64Counter("orders.service.amount_submitted", metric.WithDescription("Sum of submitted order totals"), metric.WithUnit("{cent}"))
	return serviceMetrics{ordersSubmitted: ordersSubmitted, ordersCancelled: ordersCancelled, amountSubmitted: amountSubmitted}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, totalCents int64) {
	if m.ordersSubmitted != nil {
		m.ordersSubmitted.Add(ctx, 1)
	}
	if m.amountSubmitted != nil {
		m.amountSubmitted.Add(ctx, totalCents)
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
