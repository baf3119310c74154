package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/payments/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/eventbus"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

const ListenerPendingOnOrderSubmitted = "payments.pending-on-order-submitted"

// Listeners react to order events.
type Listeners struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewListeners(repo ports.Repository, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listeners{repo: repo, logger: logger, now: time.Now}
}

func (l *Listeners) Register(bus *eventbus.Bus) {
	eventbus.On(bus, ListenerPendingOnOrderSubmitted, l.CreatePendingOnOrderSubmitted)
}

// CreatePendingOnOrderSubmitted opens a PENDING payment for the order unless
// one already exists. The check and the insert are separate statements, so
// two concurrent deliveries for the same order can both insert.
func (l *Listeners) CreatePendingOnOrderSubmitted(ctx context.Context, ev events.OrderSubmitted) error {
	attrs := []slog.Attr{
		slog.String("event.id", ev.ID()),
		slog.Int64("order.id", ev.OrderID),
		slog.String("order.no", ev.OrderNo),
	}
	exists, err := l.repo.ExistsByOrderAndStatus(ctx, ev.OrderID, domain.StatusPending)
	if err != nil {
		return err
	}
	if exists {
		l.logger.LogAttrs(ctx, slog.LevelInfo, "pending payment already exists, skipping", attrs...)
		return nil
	}
	payment, err := domain.NewPendingPayment(ev.OrderID, ev.AmountCents, l.now())
	if err != nil {
		return err
	}
	saved, err := l.repo.Create(ctx, payment)
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "pending payment created",
		append(attrs, slog.Int64("payment.id", saved.ID), slog.Int64("payment.amount_cents", saved.AmountCents))...)
	return nil
}
