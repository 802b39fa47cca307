package service

import (
	"errors"
	"fmt"
)

// Domain errors returned by the services. Handlers map these to HTTP status
// codes; everything else surfaces as an internal error.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrInvalidStatus   = errors.New("invalid payment status")
	// ErrProductHasStock guards catalog deletion: a product with remaining
	// quantity cannot be removed until its stock is zeroed out.
	ErrProductHasStock = errors.New("product still has stock")
	ErrMissingSheet    = errors.New("workbook has no warehouse sheet")
	ErrUnreadableFile  = errors.New("file is not a readable workbook")

	ErrCoefficientNotPositive = errors.New("coefficient must be greater than zero")
	ErrNegativeQuantity       = errors.New("quantity must not be negative")
	ErrNegativePrice          = errors.New("purchase price must not be negative")
)

// InsufficientStockError is returned when a sale requests more units than the
// catalog currently holds. It aborts the whole sale transaction.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %q: %d available, %d requested",
		e.ProductName, e.Available, e.Requested)
}
