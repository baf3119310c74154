package application

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Apurer/breakfast-erp/internal/domains/orders/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/eventbus"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

const ListenerPaidOnPaymentCompleted = "orders.paid-on-payment-completed"

// Listeners react to payment events.
type Listeners struct {
	repo   ports.Repository
	logger *slog.Logger
}

func NewListeners(repo ports.Repository, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listeners{repo: repo, logger: logger}
}

func (l *Listeners) Register(bus *eventbus.Bus) {
	eventbus.On(bus, ListenerPaidOnPaymentCompleted, l.MarkPaidOnPaymentCompleted)
}

// MarkPaidOnPaymentCompleted marks the paid order PAID. A missing order or an
// order no longer awaiting payment is skipped without error.
func (l *Listeners) MarkPaidOnPaymentCompleted(ctx context.Context, ev events.PaymentCompleted) error {
	attrs := []slog.Attr{
		slog.String("event.id", ev.ID()),
		slog.Int64("order.id", ev.OrderID),
		slog.Int64("payment.id", ev.PaymentID),
	}
	order, err := l.repo.GetByID(ctx, ev.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		l.logger.LogAttrs(ctx, slog.LevelInfo, "order not found, skipping", attrs...)
		return nil
	}
	if err != nil {
		return err
	}
	from := order.Status
	if err := order.MarkPaid(); err != nil {
		l.logger.LogAttrs(ctx, slog.LevelWarn, "order not awaiting payment, skipping",
			append(attrs, slog.String("order.status", string(from)))...)
		return nil
	}
	rows, err := l.repo.UpdateStatus(ctx, order.ID, from, domain.StatusPaid)
	if err != nil {
		return err
	}
	if rows == 0 {
		l.logger.LogAttrs(ctx, slog.LevelWarn, "order changed status concurrently, skipping", attrs...)
		return nil
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "order marked paid", append(attrs, slog.Int64("rows", rows))...)
	return nil
}
