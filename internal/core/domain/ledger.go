// internal/core/domain/ledger.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryType classifies what caused a quantity change
type EntryType string

const (
	EntryInvoice EntryType = "invoice"
	EntryReceipt EntryType = "receipt"
	EntryEdit    EntryType = "edit"
	EntryDelete  EntryType = "delete"
)

// LedgerEntry is the immutable record of one quantity change. Entries are
// append-only: they are written in the same transaction as the product
// update they describe and never modified afterwards. Readers never derive
// stock from the ledger; it exists for history and reconciliation.
type LedgerEntry struct {
	ID             uuid.UUID `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Type           EntryType `json:"type"`
	QuantityChange int       `json:"quantity_change"`
	BeforeQuantity int       `json:"before_quantity"`
	AfterQuantity  int       `json:"after_quantity"`
}

// NewLedgerEntry constructs an entry from all six required fields and
// rejects any combination that breaks after = before + change.
func NewLedgerEntry(ts time.Time, productID uuid.UUID, productName string, typ EntryType, change, before, after int) (LedgerEntry, error) {
	if productID == uuid.Nil {
		return LedgerEntry{}, fmt.Errorf("ledger entry requires a product id")
	}
	if productName == "" {
		return LedgerEntry{}, fmt.Errorf("ledger entry requires a product name")
	}
	switch typ {
	case EntryInvoice, EntryReceipt, EntryEdit, EntryDelete:
	default:
		return LedgerEntry{}, fmt.Errorf("unknown ledger entry type %q", typ)
	}
	if after != before+change {
		return LedgerEntry{}, fmt.Errorf("inconsistent ledger entry: %d + %d != %d", before, change, after)
	}
	return LedgerEntry{
		ID:             uuid.New(),
		Timestamp:      ts,
		ProductID:      productID,
		ProductName:    productName,
		Type:           typ,
		QuantityChange: change,
		BeforeQuantity: before,
		AfterQuantity:  after,
	}, nil
}

// Consistent reports whether the entry satisfies its arithmetic invariant
func (e LedgerEntry) Consistent() bool {
	return e.AfterQuantity == e.BeforeQuantity+e.QuantityChange
}
