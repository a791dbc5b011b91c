// internal/core/services/stock.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// maxTxRetries bounds how often a serialization conflict is retried before
// it surfaces as domain.ErrTransactionConflict.
const maxTxRetries = 3

// StockService is the only writer of product quantities. Every mutation
// runs as one serializable transaction pairing the product update with its
// ledger entry, so the two can never diverge.
type StockService struct {
	db       ports.Database
	repo     ports.ProductRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

var _ ports.StockService = (*StockService)(nil)

// NewStockService creates a new stock service
func NewStockService(db ports.Database, repo ports.ProductRepository, notifier ports.Notifier, logger *slog.Logger) *StockService {
	return &StockService{
		db:       db,
		repo:     repo,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "stock")),
	}
}

// Checkout converts a cart into an invoice, decrementing stock. Any line
// failing its stock check aborts the whole transaction.
func (s *StockService) Checkout(ctx context.Context, userID string, cart []domain.CartLine) (*domain.Invoice, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateCart(cart); err != nil {
		return nil, err
	}

	// Stable lock order across concurrent checkouts
	lines := make([]domain.CartLine, len(cart))
	copy(lines, cart)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})

	var invoice *domain.Invoice

	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		now := time.Now()
		items := make([]domain.InvoiceItem, 0, len(lines))
		entries := make([]domain.LedgerEntry, 0, len(lines))

		for _, line := range lines {
			p, err := lockProduct(ctx, tx, userID, line.ProductID)
			if err != nil {
				return err
			}
			if p.Quantity < line.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Quantity,
					Requested:   line.Quantity,
				}
			}

			newQty := p.Quantity - line.Quantity
			if err := updateQuantity(ctx, tx, userID, p.ID, newQty, now); err != nil {
				return err
			}

			entry, err := domain.NewLedgerEntry(now, p.ID, p.Name, domain.EntryInvoice, -line.Quantity, p.Quantity, newQty)
			if err != nil {
				return err
			}
			entries = append(entries, entry)

			items = append(items, domain.InvoiceItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  line.Quantity,
				Price:     p.Price,
			})
		}

		inv := &domain.Invoice{
			ID:        uuid.New(),
			CreatedAt: now,
			Items:     items,
		}
		inv.ComputeTotal()

		if err := insertInvoice(ctx, tx, userID, inv); err != nil {
			return err
		}
		if err := insertLedgerEntries(ctx, tx, userID, entries); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("user_id", userID),
		slog.String("invoice_id", invoice.ID.String()),
		slog.Int("line_count", len(invoice.Items)),
		slog.String("total", invoice.Total.String()))

	s.publish(ctx, userID, ports.CollectionProducts, ports.CollectionInvoices, ports.CollectionLedger)

	return invoice, nil
}

// Receive books incoming stock, incrementing quantities
func (s *StockService) Receive(ctx context.Context, userID string, lines []domain.ReceiptLine) (*domain.Receipt, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateReceiptLines(lines); err != nil {
		return nil, err
	}

	sorted := make([]domain.ReceiptLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	var receipt *domain.Receipt

	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		now := time.Now()
		items := make([]domain.ReceiptItem, 0, len(sorted))
		entries := make([]domain.LedgerEntry, 0, len(sorted))

		for _, line := range sorted {
			p, err := lockProduct(ctx, tx, userID, line.ProductID)
			if err != nil {
				return err
			}

			newQty := p.Quantity + line.Quantity
			if err := updateQuantity(ctx, tx, userID, p.ID, newQty, now); err != nil {
				return err
			}

			entry, err := domain.NewLedgerEntry(now, p.ID, p.Name, domain.EntryReceipt, line.Quantity, p.Quantity, newQty)
			if err != nil {
				return err
			}
			entries = append(entries, entry)

			items = append(items, domain.ReceiptItem{
				ProductID:     p.ID,
				Name:          p.Name,
				QuantityAdded: line.Quantity,
				NewQuantity:   newQty,
			})
		}

		rec := &domain.Receipt{
			ID:        uuid.New(),
			CreatedAt: now,
			Items:     items,
		}

		if err := insertReceipt(ctx, tx, userID, rec); err != nil {
			return err
		}
		if err := insertLedgerEntries(ctx, tx, userID, entries); err != nil {
			return err
		}

		receipt = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock received",
		slog.String("user_id", userID),
		slog.String("receipt_id", receipt.ID.String()),
		slog.Int("line_count", len(receipt.Items)))

	s.publish(ctx, userID, ports.CollectionProducts, ports.CollectionReceipts, ports.CollectionLedger)

	return receipt, nil
}

// AddProduct inserts a new product. The initial quantity is the baseline
// the ledger measures against, so no entry is written.
func (s *StockService) AddProduct(ctx context.Context, userID string, p *domain.Product) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.PrepareForStorage()

	if err := s.repo.Save(ctx, userID, p); err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.InfoContext(ctx, "product added",
		slog.String("user_id", userID),
		slog.String("product_id", p.ID.String()),
		slog.String("name", p.Name))

	s.publish(ctx, userID, ports.CollectionProducts)

	return nil
}

// UpdateProduct applies a partial edit. A quantity change writes an
// edit-type ledger entry in the same transaction as the row update.
func (s *StockService) UpdateProduct(ctx context.Context, userID string, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var (
		updated       *domain.Product
		ledgerTouched bool
	)

	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		ledgerTouched = false

		p, err := lockProduct(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		now := time.Now()
		next := patch.Apply(*p)
		next.UpdatedAt = now

		photos, err := json.Marshal(next.Photos)
		if err != nil {
			return fmt.Errorf("failed to encode photos: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE products
			SET sku = $3, name = $4, category = $5, quantity = $6, price = $7,
			    photos = $8, updated_at = $9
			WHERE user_id = $1 AND id = $2`,
			userID, id, next.SKU, next.Name, next.Category, next.Quantity,
			next.Price, photos, now,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if patch.Quantity != nil && next.Quantity != p.Quantity {
			entry, err := domain.NewLedgerEntry(now, p.ID, next.Name, domain.EntryEdit,
				next.Quantity-p.Quantity, p.Quantity, next.Quantity)
			if err != nil {
				return err
			}
			if err := insertLedgerEntries(ctx, tx, userID, []domain.LedgerEntry{entry}); err != nil {
				return err
			}
			ledgerTouched = true
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("user_id", userID),
		slog.String("product_id", id.String()),
		slog.Bool("quantity_changed", ledgerTouched))

	if ledgerTouched {
		s.publish(ctx, userID, ports.CollectionProducts, ports.CollectionLedger)
	} else {
		s.publish(ctx, userID, ports.CollectionProducts)
	}

	return updated, nil
}

// DeleteProduct removes a product, writing a delete-type ledger entry that
// zeroes out the remaining quantity.
func (s *StockService) DeleteProduct(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}

	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		return deleteOne(ctx, tx, userID, id, time.Now())
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("user_id", userID),
		slog.String("product_id", id.String()))

	s.publish(ctx, userID, ports.CollectionProducts, ports.CollectionLedger)

	return nil
}

// DeleteProducts removes several products in one all-or-nothing
// transaction. A missing id aborts the batch and is reported in Failed.
func (s *StockService) DeleteProducts(ctx context.Context, userID string, ids []uuid.UUID) (*ports.BulkDeleteResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if len(ids) == 0 {
		return nil, &domain.ValidationError{Field: "ids", Reason: "no products to delete"}
	}

	result := &ports.BulkDeleteResult{}

	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		result.Deleted = result.Deleted[:0]
		result.Failed = result.Failed[:0]

		now := time.Now()
		for _, id := range ids {
			if err := deleteOne(ctx, tx, userID, id, now); err != nil {
				if domain.IsNotFound(err) {
					result.Failed = append(result.Failed, id)
					continue
				}
				return err
			}
			result.Deleted = append(result.Deleted, id)
		}

		if len(result.Failed) > 0 {
			return &domain.NotFoundError{ProductID: result.Failed[0]}
		}
		return nil
	})
	if err != nil {
		result.Deleted = nil
		return result, err
	}

	s.logger.InfoContext(ctx, "products deleted",
		slog.String("user_id", userID),
		slog.Int("count", len(result.Deleted)))

	s.publish(ctx, userID, ports.CollectionProducts, ports.CollectionLedger)

	return result, nil
}

// withRetry runs fn in a serializable transaction, retrying serialization
// and deadlock failures up to maxTxRetries times.
func (s *StockService) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}

	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		if attempt > 0 {
			s.logger.WarnContext(ctx, "retrying conflicting transaction",
				slog.Int("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
			}
		}

		err := s.db.Transaction(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, lastErr)
}

// publish notifies the live feed after a committed write. Best effort.
func (s *StockService) publish(ctx context.Context, userID string, collections ...string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, userID, collections...); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change notification",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
}

// isSerializationFailure reports whether err is a retryable conflict
// (serialization_failure or deadlock_detected).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// lockProduct reads the product row under FOR UPDATE so the quantity seen
// here is the quantity the ledger entry will record as "before".
func lockProduct(ctx context.Context, tx pgx.Tx, userID string, id uuid.UUID) (*domain.Product, error) {
	p := &domain.Product{}
	err := tx.QueryRow(ctx, `
		SELECT id, name, quantity, price
		FROM products
		WHERE user_id = $1 AND id = $2
		FOR UPDATE`,
		userID, id,
	).Scan(&p.ID, &p.Name, &p.Quantity, &p.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{ProductID: id}
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	return p, nil
}

func updateQuantity(ctx context.Context, tx pgx.Tx, userID string, id uuid.UUID, quantity int, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE products SET quantity = $3, updated_at = $4
		WHERE user_id = $1 AND id = $2`,
		userID, id, quantity, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return nil
}

func deleteOne(ctx context.Context, tx pgx.Tx, userID string, id uuid.UUID, now time.Time) error {
	p, err := lockProduct(ctx, tx, userID, id)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	entry, err := domain.NewLedgerEntry(now, p.ID, p.Name, domain.EntryDelete, -p.Quantity, p.Quantity, 0)
	if err != nil {
		return err
	}
	return insertLedgerEntries(ctx, tx, userID, []domain.LedgerEntry{entry})
}

func insertInvoice(ctx context.Context, tx pgx.Tx, userID string, inv *domain.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("failed to encode invoice items: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, user_id, created_at, items, total)
		VALUES ($1, $2, $3, $4, $5)`,
		inv.ID, userID, inv.CreatedAt, items, inv.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func insertReceipt(ctx context.Context, tx pgx.Tx, userID string, rec *domain.Receipt) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to encode receipt items: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO receipts (id, user_id, created_at, items)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, userID, rec.CreatedAt, items,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

func insertLedgerEntries(ctx context.Context, tx pgx.Tx, userID string, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger (
			id, user_id, ts, product_id, product_name, entry_type,
			quantity_change, before_quantity, after_quantity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, e := range entries {
		batch.Queue(query,
			e.ID, userID, e.Timestamp, e.ProductID, e.ProductName, e.Type,
			e.QuantityChange, e.BeforeQuantity, e.AfterQuantity,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
	}

	return nil
}
