package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/breakfast-erp/internal/domains/inventory/domain"
	"github.com/Apurer/breakfast-erp/internal/domains/inventory/ports"
)

var (
	ErrInvalidInput = errors.New("invalid inventory input")
	ErrConflict     = errors.New("inventory conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyCode),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidUnit),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidMaterial),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, ports.ErrProductNotFound):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrDuplicateCode), errors.Is(err, ports.ErrDuplicateRecipe):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
