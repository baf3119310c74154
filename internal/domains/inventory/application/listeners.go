package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	"github.com/Apurer/breakfast-erp/internal/platform/eventbus"
	"github.com/Apurer/breakfast-erp/internal/shared/events"
)

const (
	ListenerRecipeProductName = "inventory.recipe-product-name"
	ListenerRecipeMaterial    = "inventory.recipe-material"
)

// Listeners keep the product and material fields cached on recipes current.
type Listeners struct {
	recipes ports.RecipeRepository
	logger  *slog.Logger
}

func NewListeners(recipes ports.RecipeRepository, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listeners{recipes: recipes, logger: logger}
}

func (l *Listeners) Register(bus *eventbus.Bus) {
	eventbus.On(bus, ListenerRecipeProductName, l.SyncRecipeProductName)
	eventbus.On(bus, ListenerRecipeMaterial, l.SyncRecipeMaterial)
}

func (l *Listeners) SyncRecipeProductName(ctx context.Context, ev events.ProductChanged) error {
	if !ev.NameChanged() {
		return nil
	}
	rows, err := l.recipes.UpdateProductName(ctx, ev.ProductID, ev.After.Name)
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "recipe product names synced",
		slog.String("event.id", ev.ID()),
		slog.Int64("product.id", ev.ProductID),
		slog.Int64("rows", rows),
	)
	return nil
}

// SyncRecipeMaterial writes code, name and unit together whenever any of them
// changed, so unchanged columns are rewritten with their current values.
func (l *Listeners) SyncRecipeMaterial(ctx context.Context, ev events.MaterialChanged) error {
	if !ev.AnyChanged() {
		return nil
	}
	rows, err := l.recipes.UpdateMaterial(ctx, ev.MaterialID, ev.After.Code, ev.After.Name, domain.Unit(ev.After.Unit))
	if err != nil {
		return err
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "recipe materials synced",
		slog.String("event.id", ev.ID()),
		slog.Int64("material.id", ev.MaterialID),
		slog.Bool("code.changed", ev.CodeChanged()),
		slog.Bool("name.changed", ev.NameChanged()),
		slog.Bool("unit.changed", ev.UnitChanged()),
		slog.Int64("rows", rows),
	)
	return nil
}
