// internal/core/domain/invoice_test.go
package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/lavka-be/internal/core/domain"
)

func TestValidateCart(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	tests := []struct {
		name          string
		cart          []domain.CartLine
		expectedError bool
		errorField    string
	}{
		{
			name: "valid_cart",
			cart: []domain.CartLine{
				{ProductID: productA, Quantity: 2},
				{ProductID: productB, Quantity: 1},
			},
		},
		{
			name:          "empty_cart",
			cart:          nil,
			expectedError: true,
			errorField:    "cart",
		},
		{
			name: "missing_product_id",
			cart: []domain.CartLine{
				{ProductID: uuid.Nil, Quantity: 1},
			},
			expectedError: true,
			errorField:    "product_id",
		},
		{
			name: "zero_quantity",
			cart: []domain.CartLine{
				{ProductID: productA, Quantity: 0},
			},
			expectedError: true,
			errorField:    "quantity",
		},
		{
			name: "negative_quantity",
			cart: []domain.CartLine{
				{ProductID: productA, Quantity: -3},
			},
			expectedError: true,
			errorField:    "quantity",
		},
		{
			name: "duplicate_product",
			cart: []domain.CartLine{
				{ProductID: productA, Quantity: 1},
				{ProductID: productA, Quantity: 2},
			},
			expectedError: true,
			errorField:    "product_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateCart(tt.cart)

			if !tt.expectedError {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.errorField, ve.Field)
		})
	}
}

func TestValidateReceiptLines(t *testing.T) {
	productA := uuid.New()

	err := domain.ValidateReceiptLines([]domain.ReceiptLine{
		{ProductID: productA, Quantity: 5},
	})
	require.NoError(t, err)

	err = domain.ValidateReceiptLines(nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = domain.ValidateReceiptLines([]domain.ReceiptLine{
		{ProductID: productA, Quantity: 1},
		{ProductID: productA, Quantity: 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	err = domain.ValidateReceiptLines([]domain.ReceiptLine{
		{ProductID: productA, Quantity: -1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestClampCartQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		available int
		expected  int
	}{
		{"within_bounds", 3, 10, 3},
		{"exceeds_available", 15, 10, 10},
		{"exactly_available", 10, 10, 10},
		{"negative_requested", -4, 10, 0},
		{"zero_available", 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ClampCartQuantity(tt.requested, tt.available))
		})
	}
}

func TestInvoiceItem_Subtotal(t *testing.T) {
	item := domain.InvoiceItem{
		ProductID: uuid.New(),
		Name:      "Glitter panda keychain",
		Quantity:  3,
		Price:     decimal.NewFromInt(200),
	}
	assert.True(t, item.Subtotal().Equal(decimal.NewFromInt(600)),
		"expected 600, got %s", item.Subtotal())
}

func TestInvoice_ComputeTotal(t *testing.T) {
	inv := &domain.Invoice{
		ID: uuid.New(),
		Items: []domain.InvoiceItem{
			{ProductID: uuid.New(), Name: "A", Quantity: 2, Price: decimal.NewFromInt(150)},
			{ProductID: uuid.New(), Name: "B", Quantity: 1, Price: decimal.RequireFromString("49.90")},
		},
	}

	inv.ComputeTotal()

	expected := decimal.RequireFromString("349.90")
	assert.True(t, inv.Total.Equal(expected), "expected %s, got %s", expected, inv.Total)
}

func TestInvoice_ComputeTotal_Empty(t *testing.T) {
	inv := &domain.Invoice{ID: uuid.New()}
	inv.ComputeTotal()
	assert.True(t, inv.Total.IsZero())
}
