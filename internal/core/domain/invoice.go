// internal/core/domain/invoice.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one requested line of a checkout. Carts are client-local
// working state; they are validated here before any transaction is opened.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ValidateCart rejects empty carts, non-positive quantities and duplicate
// product references before a transaction is opened.
func ValidateCart(cart []CartLine) error {
	if len(cart) == 0 {
		return &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	seen := make(map[uuid.UUID]struct{}, len(cart))
	for _, line := range cart {
		if line.ProductID == uuid.Nil {
			return &ValidationError{Field: "product_id", Reason: "missing product id"}
		}
		if line.Quantity <= 0 {
			return &ValidationError{Field: "quantity", Reason: "quantity must be positive"}
		}
		if _, dup := seen[line.ProductID]; dup {
			return &ValidationError{Field: "product_id", Reason: "duplicate product in cart"}
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// ClampCartQuantity bounds a requested quantity to [0, available]. The cart
// UI applies this on every change; checkout still re-reads stock inside its
// transaction because the clamp may be based on a stale snapshot.
func ClampCartQuantity(requested, available int) int {
	if requested < 0 {
		return 0
	}
	if requested > available {
		return available
	}
	return requested
}

// InvoiceItem snapshots a product at the moment of sale. It is deliberately
// decoupled from the live product so historical invoices stay accurate when
// prices change later.
type InvoiceItem struct {
	ProductID uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal returns price x quantity for the line
func (i InvoiceItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice is the persisted result of a checkout. Immutable once created.
type Invoice struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []InvoiceItem   `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotal recomputes Total as the sum of line subtotals
func (inv *Invoice) ComputeTotal() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Subtotal())
	}
	inv.Total = total
}

// ReceiptLine is one requested line of a stock receipt
type ReceiptLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ValidateReceiptLines mirrors ValidateCart for the receipt path
func ValidateReceiptLines(lines []ReceiptLine) error {
	if len(lines) == 0 {
		return &ValidationError{Field: "items", Reason: "no items to receive"}
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return &ValidationError{Field: "product_id", Reason: "missing product id"}
		}
		if line.Quantity <= 0 {
			return &ValidationError{Field: "quantity", Reason: "quantity must be positive"}
		}
		if _, dup := seen[line.ProductID]; dup {
			return &ValidationError{Field: "product_id", Reason: "duplicate product in receipt"}
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// ReceiptItem records one received line, including the stock level that
// resulted from it.
type ReceiptItem struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	QuantityAdded int       `json:"quantity_added"`
	NewQuantity   int       `json:"new_quantity"`
}

// Receipt is the persisted result of a stock intake. Immutable once created.
type Receipt struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Items     []ReceiptItem `json:"items"`
}
