package domain

import (
	"errors"
	"strings"
)

// Unit is the measure a material is stocked and consumed in.
type Unit string

const (
	UnitPiece      Unit = "PIECE"
	UnitDozen      Unit = "DOZEN"
	UnitGram       Unit = "GRAM"
	UnitKilogram   Unit = "KILOGRAM"
	UnitMilliliter Unit = "MILLILITER"
	UnitLiter      Unit = "LITER"
	UnitPack       Unit = "PACK"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitDozen, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPack:
		return true
	}
	return false
}

// ParseUnit normalizes raw and validates it.
func ParseUnit(raw string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(raw)))
	if !u.Valid() {
		return "", ErrInvalidUnit
	}
	return u, nil
}

var (
	ErrEmptyCode       = errors.New("code is required")
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidUnit     = errors.New("unit is invalid")
	ErrInvalidProduct  = errors.New("product id must be greater than zero")
	ErrInvalidMaterial = errors.New("material id must be greater than zero")
	ErrInvalidQuantity = errors.New("recipe quantity must be greater than zero")
)

// Material is a raw ingredient or packaging item.
type Material struct {
	ID   int64
	Code string
	Name string
	Unit Unit
}

func NewMaterial(code, name string, unit Unit) (*Material, error) {
	m := &Material{Code: strings.TrimSpace(code), Name: strings.TrimSpace(name), Unit: unit}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Material) Validate() error {
	if m.Code == "" {
		return ErrEmptyCode
	}
	if m.Name == "" {
		return ErrEmptyName
	}
	if !m.Unit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}

// ProductRecipe states how much of a material one unit of a product uses.
// Product name and the material code, name and unit are cached copies.
type ProductRecipe struct {
	ID           int64
	ProductID    int64
	ProductName  string
	MaterialID   int64
	MaterialCode string
	MaterialName string
	Unit         Unit
	Quantity     float64
}

func (r *ProductRecipe) Validate() error {
	if r.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if r.MaterialID <= 0 {
		return ErrInvalidMaterial
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// UseMaterial refreshes the cached material fields.
func (r *ProductRecipe) UseMaterial(m *Material) {
	r.MaterialID = m.ID
	r.MaterialCode = m.Code
	r.MaterialName = m.Name
	r.Unit = m.Unit
}
