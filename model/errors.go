package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrReferentialIntegrity is returned when a category delete is
	// blocked by products still referencing it.
	ErrReferentialIntegrity = errors.New("record is referenced by other records")

	// ErrStoreUnavailable wraps connectivity failures talking to the
	// store. Operations failing with it are not retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError rejects malformed or missing input before any store
// mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CapacityExceededError is returned by cart add when the requested
// quantity plus what is already in the cart exceeds the known stock.
// Available reports the maximum that can still be added.
type CapacityExceededError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("requested %d of product %d exceeds available stock, %d still available",
		e.Requested, e.ProductID, e.Available)
}

// InsufficientStockError is returned at checkout when the conditional
// stock decrement finds less on hand than the line requires.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, %d remaining",
		e.ProductID, e.Requested, e.Remaining)
}
