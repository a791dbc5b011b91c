// internal/core/domain/ledger_test.go
package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/lavka-be/internal/core/domain"
)

func TestNewLedgerEntry(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	tests := []struct {
		name          string
		productID     uuid.UUID
		productName   string
		entryType     domain.EntryType
		change        int
		before        int
		after         int
		expectedError bool
		errorContains string
	}{
		{
			name:        "invoice_entry_with_negative_change",
			productID:   productID,
			productName: "Octopus plush",
			entryType:   domain.EntryInvoice,
			change:      -3,
			before:      10,
			after:       7,
		},
		{
			name:        "receipt_entry_with_positive_change",
			productID:   productID,
			productName: "Octopus plush",
			entryType:   domain.EntryReceipt,
			change:      5,
			before:      2,
			after:       7,
		},
		{
			name:        "edit_entry_with_zero_change",
			productID:   productID,
			productName: "Octopus plush",
			entryType:   domain.EntryEdit,
			change:      0,
			before:      4,
			after:       4,
		},
		{
			name:        "delete_entry_zeroes_stock",
			productID:   productID,
			productName: "Octopus plush",
			entryType:   domain.EntryDelete,
			change:      -8,
			before:      8,
			after:       0,
		},
		{
			name:          "rejects_broken_arithmetic",
			productID:     productID,
			productName:   "Octopus plush",
			entryType:     domain.EntryInvoice,
			change:        -3,
			before:        10,
			after:         8,
			expectedError: true,
			errorContains: "inconsistent ledger entry",
		},
		{
			name:          "rejects_nil_product_id",
			productID:     uuid.Nil,
			productName:   "Octopus plush",
			entryType:     domain.EntryInvoice,
			change:        -1,
			before:        2,
			after:         1,
			expectedError: true,
			errorContains: "product id",
		},
		{
			name:          "rejects_empty_product_name",
			productID:     productID,
			productName:   "",
			entryType:     domain.EntryInvoice,
			change:        -1,
			before:        2,
			after:         1,
			expectedError: true,
			errorContains: "product name",
		},
		{
			name:          "rejects_unknown_entry_type",
			productID:     productID,
			productName:   "Octopus plush",
			entryType:     domain.EntryType("adjustment"),
			change:        -1,
			before:        2,
			after:         1,
			expectedError: true,
			errorContains: "unknown ledger entry type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := domain.NewLedgerEntry(now, tt.productID, tt.productName, tt.entryType, tt.change, tt.before, tt.after)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, entry.ID)
			assert.Equal(t, now, entry.Timestamp)
			assert.Equal(t, tt.productID, entry.ProductID)
			assert.Equal(t, tt.entryType, entry.Type)
			assert.Equal(t, tt.change, entry.QuantityChange)
			assert.Equal(t, tt.before, entry.BeforeQuantity)
			assert.Equal(t, tt.after, entry.AfterQuantity)
			assert.True(t, entry.Consistent())
		})
	}
}

func TestLedgerEntry_Consistent(t *testing.T) {
	entry := domain.LedgerEntry{
		QuantityChange: -2,
		BeforeQuantity: 10,
		AfterQuantity:  8,
	}
	assert.True(t, entry.Consistent())

	entry.AfterQuantity = 9
	assert.False(t, entry.Consistent())
}
