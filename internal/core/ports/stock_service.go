// internal/core/ports/stock_service.go
package ports

import (
	"context"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/google/uuid"
)

// BulkDeleteResult reports the outcome of a bulk delete. The operation is
// all-or-nothing: Failed is only populated when the whole batch aborted,
// naming the ids that caused it.
type BulkDeleteResult struct {
	Deleted []uuid.UUID `json:"deleted"`
	Failed  []uuid.UUID `json:"failed,omitempty"`
}

// StockService is the transactional engine behind every quantity change.
// Each mutating operation runs as a single all-or-nothing transaction that
// pairs product updates with ledger entries; concurrent conflicting calls
// are serialized by the database and retried a bounded number of times.
type StockService interface {
	// Checkout converts a cart into an invoice, decrementing stock.
	Checkout(ctx context.Context, userID string, cart []domain.CartLine) (*domain.Invoice, error)

	// Receive books incoming stock, incrementing quantities.
	Receive(ctx context.Context, userID string, lines []domain.ReceiptLine) (*domain.Receipt, error)

	// AddProduct inserts a new product. No ledger entry: the initial
	// quantity is the baseline ledger conservation is measured against.
	AddProduct(ctx context.Context, userID string, p *domain.Product) error

	// UpdateProduct applies a partial edit. A quantity change produces an
	// edit-type ledger entry in the same transaction.
	UpdateProduct(ctx context.Context, userID string, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)

	// DeleteProduct removes a product, appending a delete-type ledger entry
	// that zeroes the remaining quantity.
	DeleteProduct(ctx context.Context, userID string, id uuid.UUID) error

	// DeleteProducts removes several products in one transaction.
	DeleteProducts(ctx context.Context, userID string, ids []uuid.UUID) (*BulkDeleteResult, error)
}

// CatalogSeeder provisions the starter catalog for a fresh account.
type CatalogSeeder interface {
	// SeedIfEmpty inserts the starter catalog when the user's product
	// collection is empty. Returns true when seeding actually ran. Safe to
	// call concurrently; double-seeding is prevented.
	SeedIfEmpty(ctx context.Context, userID string) (bool, error)
}
