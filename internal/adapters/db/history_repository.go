// internal/adapters/db/history_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// historyRepository implements ports.HistoryRepository over the invoices,
// receipts and ledger tables. All three are written only inside stock
// service transactions; this type reads.
type historyRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *Database, logger *slog.Logger) ports.HistoryRepository {
	return &historyRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "history")),
	}
}

// ListInvoices returns the user's invoices, newest first
func (r *historyRepository) ListInvoices(ctx context.Context, userID string, limit int) ([]*domain.Invoice, error) {
	query := `
		SELECT id, created_at, items, total
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}

	invoices, err := ScanMany(rows, scanInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoices: %w", err)
	}

	return invoices, nil
}

// FindInvoiceByID returns one invoice, scoped to the owning user
func (r *historyRepository) FindInvoiceByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Invoice, error) {
	query := `
		SELECT id, created_at, items, total
		FROM invoices
		WHERE user_id = $1 AND id = $2`

	row := r.db.QueryRow(ctx, query, userID, id)

	inv := &domain.Invoice{}
	var items []byte
	if err := row.Scan(&inv.ID, &inv.CreatedAt, &items, &inv.Total); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{ProductID: id}
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("failed to decode invoice items: %w", err)
	}

	return inv, nil
}

// ListReceipts returns the user's receipts, newest first
func (r *historyRepository) ListReceipts(ctx context.Context, userID string, limit int) ([]*domain.Receipt, error) {
	query := `
		SELECT id, created_at, items
		FROM receipts
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}

	receipts, err := ScanMany(rows, scanReceipt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipts: %w", err)
	}

	return receipts, nil
}

// ListLedger returns the user's ledger entries, newest first
func (r *historyRepository) ListLedger(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, ts, product_id, product_name, entry_type,
		       quantity_change, before_quantity, after_quantity
		FROM ledger
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	entries, err := ScanMany(rows, scanLedgerEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}

	return entries, nil
}

// ListLedgerForProduct returns all ledger entries for one product, newest first
func (r *historyRepository) ListLedgerForProduct(ctx context.Context, userID string, productID uuid.UUID) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, ts, product_id, product_name, entry_type,
		       quantity_change, before_quantity, after_quantity
		FROM ledger
		WHERE user_id = $1 AND product_id = $2
		ORDER BY ts DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	entries, err := ScanMany(rows, scanLedgerEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}

	return entries, nil
}

// InvoicesSince returns invoices created at or after the cutoff, oldest first
func (r *historyRepository) InvoicesSince(ctx context.Context, userID string, since time.Time) ([]*domain.Invoice, error) {
	query := `
		SELECT id, created_at, items, total
		FROM invoices
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}

	invoices, err := ScanMany(rows, scanInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoices: %w", err)
	}

	return invoices, nil
}

func scanInvoice(rows pgx.Rows) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	var items []byte

	if err := rows.Scan(&inv.ID, &inv.CreatedAt, &items, &inv.Total); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("failed to decode invoice items: %w", err)
	}

	return inv, nil
}

func scanReceipt(rows pgx.Rows) (*domain.Receipt, error) {
	rec := &domain.Receipt{}
	var items []byte

	if err := rows.Scan(&rec.ID, &rec.CreatedAt, &items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, fmt.Errorf("failed to decode receipt items: %w", err)
	}

	return rec, nil
}

func scanLedgerEntry(rows pgx.Rows) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}

	err := rows.Scan(
		&e.ID, &e.Timestamp, &e.ProductID, &e.ProductName, &e.Type,
		&e.QuantityChange, &e.BeforeQuantity, &e.AfterQuantity,
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}
