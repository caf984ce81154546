package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrTransactionConflict = errors.New("transaction conflict, retry")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthenticated     = errors.New("authentication required")
)

// StockError reports a product whose stock cannot cover the requested quantity.
// Available is what is left for the caller: for cart adds that is stock minus the
// quantity already in the cart.
type StockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: only %d available", e.Name, e.Available)
	}
	return fmt.Sprintf("product %d: only %d available", e.ProductID, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
