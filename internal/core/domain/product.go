// internal/core/domain/product.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity below which a product is flagged
// on the low-stock report.
const LowStockThreshold = 5

// Product represents a single stock-keeping unit. Quantity is the
// authoritative stock count and is only ever changed through the stock
// service, which pairs every change with a ledger entry.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Photos    []string        `json:"photos"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if p.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "quantity cannot be negative"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "price cannot be negative"}
	}
	if len(p.Photos) == 0 {
		return &ValidationError{Field: "photos", Reason: "at least one photo is required"}
	}
	return nil
}

// PrepareForStorage assigns an id and timestamps before the first insert
func (p *Product) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// IsLowStock reports whether the product is below the low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.Quantity < LowStockThreshold
}

// ProductPatch describes a partial product update. Nil fields are left
// untouched. A non-nil Quantity routes the update through the ledger-paired
// edit path of the stock service.
type ProductPatch struct {
	SKU      *string          `json:"sku,omitempty"`
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Photos   *[]string        `json:"photos,omitempty"`
}

// IsZero reports whether the patch changes nothing
func (p ProductPatch) IsZero() bool {
	return p.SKU == nil && p.Name == nil && p.Category == nil &&
		p.Quantity == nil && p.Price == nil && p.Photos == nil
}

// Validate rejects patches that would put a product into an invalid state
func (p ProductPatch) Validate() error {
	if p.IsZero() {
		return &ValidationError{Field: "patch", Reason: "no fields to update"}
	}
	if p.Name != nil && *p.Name == "" {
		return &ValidationError{Field: "name", Reason: "name cannot be empty"}
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "quantity cannot be negative"}
	}
	if p.Price != nil && p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "price cannot be negative"}
	}
	if p.Photos != nil && len(*p.Photos) == 0 {
		return &ValidationError{Field: "photos", Reason: "at least one photo is required"}
	}
	return nil
}

// Apply overlays the patch onto a product copy and returns it
func (p ProductPatch) Apply(base Product) Product {
	if p.SKU != nil {
		base.SKU = *p.SKU
	}
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Category != nil {
		base.Category = *p.Category
	}
	if p.Quantity != nil {
		base.Quantity = *p.Quantity
	}
	if p.Price != nil {
		base.Price = *p.Price
	}
	if p.Photos != nil {
		base.Photos = *p.Photos
	}
	base.UpdatedAt = time.Now()
	return base
}
