// internal/core/ports/history_repository.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/google/uuid"
)

// HistoryRepository reads the immutable output of committed transactions:
// invoices, receipts and the ledger. Writes happen only inside the stock
// service's transactions; this port never mutates.
type HistoryRepository interface {
	// Invoices and receipts ordered by creation time descending.
	ListInvoices(ctx context.Context, userID string, limit int) ([]*domain.Invoice, error)
	FindInvoiceByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Invoice, error)
	ListReceipts(ctx context.Context, userID string, limit int) ([]*domain.Receipt, error)

	// Ledger ordered by timestamp descending.
	ListLedger(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
	ListLedgerForProduct(ctx context.Context, userID string, productID uuid.UUID) ([]*domain.LedgerEntry, error)

	// InvoicesSince returns invoices created at or after the cutoff,
	// oldest first, for revenue aggregation.
	InvoicesSince(ctx context.Context, userID string, since time.Time) ([]*domain.Invoice, error)
}
