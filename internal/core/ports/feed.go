// internal/core/ports/feed.go
package ports

import "context"

// Collection names published on the live feed
const (
	CollectionProducts = "products"
	CollectionInvoices = "invoices"
	CollectionReceipts = "receipts"
	CollectionLedger   = "ledger"
)

// Notifier is the change-notification side of the live query layer. The
// stock service publishes after every committed transaction; subscribers
// re-read the affected collection and fan full snapshots out to the UI.
type Notifier interface {
	// Publish announces that the named collections changed for the user.
	// Best effort: a failed publish never rolls back the committed write.
	Publish(ctx context.Context, userID string, collections ...string) error

	// Subscribe invokes fn once per change notification for the user's
	// collection until the returned stop function is called. fn runs on the
	// subscription's own goroutine.
	Subscribe(ctx context.Context, userID, collection string, fn func()) (stop func(), err error)
}
