package api

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/Apurer/breakfast-erp/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/breakfast-erp/internal/domains/catalog/ports"
	inventoryports "github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
	ordersports "github.com/Apurer/breakfast-erp/internal/domains/orders/ports"
)

// catalogLookup reads products for the inventory and orders contexts,
// translating a missing product into each caller's own sentinel.
type catalogLookup struct {
	products catalogports.ProductRepository
}

var (
	_ inventoryports.ProductLookup = catalogLookup{}
	_ ordersports.ProductCatalog   = catalogLookup{}
)

func (l catalogLookup) ProductName(ctx context.Context, productID int64) (string, error) {
	product, err := l.products.GetByID(ctx, productID)
	if errors.Is(err, catalogports.ErrNotFound) {
		return "", fmt.Errorf("%w: %d", inventoryports.ErrProductNotFound, productID)
	}
	if err != nil {
		return "", err
	}
	return product.Name, nil
}

func (l catalogLookup) Product(ctx context.Context, productID int64) (ordersports.Product, error) {
	product, err := l.products.GetByID(ctx, productID)
	if errors.Is(err, catalogports.ErrNotFound) {
		return ordersports.Product{}, fmt.Errorf("%w: %d", ordersports.ErrProductNotFound, productID)
	}
	if err != nil {
		return ordersports.Product{}, err
	}
	return ordersports.Product{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		OnSale:     product.Status == catalogdomain.ProductOnSale,
	}, nil
}
