// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the storage and identity boundaries
var (
	// ErrUnauthenticated is returned before any storage call when no
	// authenticated identity is present.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrTransactionConflict is returned after the engine has exhausted its
	// retries for a backend serialization conflict.
	ErrTransactionConflict = errors.New("transaction conflict")
)

// NotFoundError is returned when a referenced product does not exist at
// transaction time. It aborts the whole transaction.
type NotFoundError struct {
	ProductID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// InsufficientStockError is returned when a checkout line requests more than
// the quantity available inside the transaction. It aborts the whole
// transaction; no line is applied.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// ValidationError is a cheap local rejection surfaced before any
// transaction is opened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
