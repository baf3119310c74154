package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/eventbus"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

const (
	ListenerProductCategoryName = "catalog.product-category-name"
	ListenerComboCategoryName   = "catalog.combo-category-name"
	ListenerComboItemProduct    = "catalog.combo-item-product-name"
)

// Listeners keeps the category and product names cached on catalog rows in
// step with their owners.
type Listeners struct {
	products ports.ProductRepository
	combos   ports.ComboRepository
	items    ports.ComboItemRepository
	logger   *slog.Logger
}

func NewListeners(products ports.ProductRepository, combos ports.ComboRepository, items ports.ComboItemRepository, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listeners{products: products, combos: combos, items: items, logger: logger}
}

func (l *Listeners) Register(bus *eventbus.Bus) {
	eventbus.On(bus, ListenerProductCategoryName, l.SyncProductCategoryName)
	eventbus.On(bus, ListenerComboCategoryName, l.SyncComboCategoryName)
	eventbus.On(bus, ListenerComboItemProduct, l.SyncComboItemProductName)
}

func (l *Listeners) SyncProductCategoryName(ctx context.Context, ev events.CategoryRenamed) error {
	if !ev.NameChanged() {
		return nil
	}
	rows, err := l.products.UpdateCategoryName(ctx, ev.CategoryID, ev.After.Name)
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "product category names synced",
		slog.String("event.id", ev.ID()),
		slog.Int64("category.id", ev.CategoryID),
		slog.Int64("rows", rows),
	)
	return nil
}

func (l *Listeners) SyncComboCategoryName(ctx context.Context, ev events.CategoryRenamed) error {
	if !ev.NameChanged() {
		return nil
	}
	rows, err := l.combos.UpdateCategoryName(ctx, ev.CategoryID, ev.After.Name)
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "combo category names synced",
		slog.String("event.id", ev.ID()),
		slog.Int64("category.id", ev.CategoryID),
		slog.Int64("rows", rows),
	)
	return nil
}

func (l *Listeners) SyncComboItemProductName(ctx context.Context, ev events.ProductChanged) error {
	if !ev.NameChanged() {
		return nil
	}
	rows, err := l.items.UpdateProductName(ctx, ev.ProductID, ev.After.Name)
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "combo item product names synced",
		slog.String("event.id", ev.ID()),
		slog.Int64("product.id", ev.ProductID),
		slog.Int64("rows", rows),
	)
	return nil
}
