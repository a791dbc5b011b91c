// internal/core/domain/errors_test.go
package domain_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ammerola/lavka-be/internal/core/domain"
)

func TestErrorClassifiers(t *testing.T) {
	notFound := &domain.NotFoundError{ProductID: uuid.New()}
	insufficient := &domain.InsufficientStockError{
		ProductID:   uuid.New(),
		ProductName: "Octopus plush",
		Available:   2,
		Requested:   5,
	}
	invalid := &domain.ValidationError{Field: "name", Reason: "name is required"}

	assert.True(t, domain.IsNotFound(notFound))
	assert.True(t, domain.IsInsufficientStock(insufficient))
	assert.True(t, domain.IsValidation(invalid))

	// Classification survives wrapping
	wrapped := fmt.Errorf("checkout failed: %w", insufficient)
	assert.True(t, domain.IsInsufficientStock(wrapped))
	assert.False(t, domain.IsNotFound(wrapped))
	assert.False(t, domain.IsValidation(wrapped))

	assert.False(t, domain.IsNotFound(nil))
	assert.False(t, domain.IsInsufficientStock(domain.ErrTransactionConflict))
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &domain.InsufficientStockError{
		ProductName: "Green T-Rex plush",
		Available:   1,
		Requested:   4,
	}
	assert.Contains(t, err.Error(), "Green T-Rex plush")
	assert.Contains(t, err.Error(), "available 1")
	assert.Contains(t, err.Error(), "requested 4")
}
