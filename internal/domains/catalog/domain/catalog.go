package domain

import (
	"errors"
	"strings"
)

// ProductStatus tells whether a product can be ordered.
type ProductStatus string

const (
	ProductOnSale  ProductStatus = "ON_SALE"
	ProductOffSale ProductStatus = "OFF_SALE"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrEmptyCode       = errors.New("code is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("category id must be greater than zero")
	ErrInvalidStatus   = errors.New("product status is invalid")
	ErrInvalidQuantity = errors.New("combo item quantity must be greater than zero")
	ErrInvalidProduct  = errors.New("combo item product id must be greater than zero")
	ErrEmptyCombo      = errors.New("combo needs at least one item")
)

// Category groups products and combos on the menu. Its name is copied onto
// both so menu listings avoid a join.
type Category struct {
	ID   int64
	Code string
	Name string
}

func NewCategory(code, name string) (*Category, error) {
	c := &Category{Code: strings.TrimSpace(code)}
	if c.Code == "" {
		return nil, ErrEmptyCode
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// Product is a sellable menu item.
type Product struct {
	ID           int64
	Code         string
	Name         string
	CategoryID   int64
	CategoryName string
	PriceCents   int64
	Status       ProductStatus
	ImageKeys    []string
}

// Validate enforces the product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrEmptyCode
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if p.PriceCents < 0 {
		return ErrInvalidPrice
	}
	switch p.Status {
	case ProductOnSale, ProductOffSale:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// AssignCategory moves the product and refreshes the cached category name.
func (p *Product) AssignCategory(c *Category) {
	p.CategoryID = c.ID
	p.CategoryName = c.Name
}

// Combo bundles several products at a set price.
type Combo struct {
	ID           int64
	Code         string
	Name         string
	CategoryID   int64
	CategoryName string
	PriceCents   int64
	Items        []ComboItem
}

// ComboItem is one product line of a combo. ProductName is a cached copy.
type ComboItem struct {
	ID          int64
	ComboID     int64
	ProductID   int64
	ProductName string
	Quantity    int32
}

func (c *Combo) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ErrEmptyCode
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if c.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if len(c.Items) == 0 {
		return ErrEmptyCombo
	}
	for _, item := range c.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProduct
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
