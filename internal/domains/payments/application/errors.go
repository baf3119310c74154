package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/breakfast-erp/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrConflict signals the payment is not in a state that allows the change.
	ErrConflict = errors.New("payment conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOrder) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidMethod) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
