// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

const productColumns = "id, sku, name, category, quantity, price, photos, created_at, updated_at"

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "products")),
	}
}

// FindByID retrieves a product by id, scoped to the owning user
func (r *productRepository) FindByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1 AND id = $2`

	p, err := scanProduct(r.db.QueryRow(ctx, query, userID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{ProductID: id}
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return p, nil
}

// FindAll retrieves products with filtering, sorting and pagination
func (r *productRepository) FindAll(ctx context.Context, userID string, q ports.ProductQuery) (*ports.ProductPage, error) {
	// List and count share the same predicates
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		b = b.Where(squirrel.Eq{"user_id": userID})
		if q.Search != "" {
			b = b.Where("search_vector @@ plainto_tsquery('simple', ?)", q.Search)
		}
		if q.Category != "" {
			b = b.Where(squirrel.Eq{"category": q.Category})
		}
		if q.LowStock {
			b = b.Where(squirrel.Lt{"quantity": domain.LowStockThreshold})
		}
		return b
	}

	qb := applyFilters(squirrel.Select(
		"id", "sku", "name", "category", "quantity", "price",
		"photos", "created_at", "updated_at",
	).From("products").
		PlaceholderFormat(squirrel.Dollar))

	countQb := applyFilters(squirrel.Select("COUNT(*)").
		From("products").
		PlaceholderFormat(squirrel.Dollar))
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	direction := "ASC"
	if q.SortOrder == "desc" {
		direction = "DESC"
	}
	orderBy := "created_at DESC"
	switch q.SortBy {
	case "name":
		orderBy = fmt.Sprintf("name %s", direction)
	case "price":
		orderBy = fmt.Sprintf("price %s", direction)
	case "quantity":
		orderBy = fmt.Sprintf("quantity %s", direction)
	case "created_at":
		orderBy = fmt.Sprintf("created_at %s", direction)
	}
	qb = qb.OrderBy(orderBy)

	if q.Limit > 0 {
		qb = qb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		qb = qb.Offset(uint64(q.Offset))
	}

	listSQL, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	items, err := ScanMany(rows, scanProductRow)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	return &ports.ProductPage{Items: items, TotalCount: totalCount}, nil
}

// Categories returns the distinct non-empty categories for the user
func (r *productRepository) Categories(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		WHERE user_id = $1 AND category <> ''
		ORDER BY category`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return categories, nil
}

// Save inserts a new product
func (r *productRepository) Save(ctx context.Context, userID string, p *domain.Product) error {
	query := `
		INSERT INTO products (
			id, user_id, sku, name, category, quantity, price, photos,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return fmt.Errorf("failed to encode photos: %w", err)
	}

	err = r.db.QueryRow(ctx, query,
		p.ID, userID, p.SKU, p.Name, p.Category, p.Quantity, p.Price, photos,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved",
		slog.String("product_id", p.ID.String()),
		slog.String("user_id", userID))

	return nil
}

// SaveBatch inserts multiple products in one transaction
func (r *productRepository) SaveBatch(ctx context.Context, userID string, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO products (
				id, user_id, sku, name, category, quantity, price, photos,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

		for i := range products {
			photos, err := json.Marshal(products[i].Photos)
			if err != nil {
				return fmt.Errorf("failed to encode photos for %s: %w", products[i].Name, err)
			}

			batch.Queue(query,
				products[i].ID, userID, products[i].SKU, products[i].Name,
				products[i].Category, products[i].Quantity, products[i].Price,
				photos, products[i].CreatedAt, products[i].UpdatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range products {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save product %d: %w", i, err)
			}
		}

		return nil
	})
}

// Count returns the number of products the user owns
func (r *productRepository) Count(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Exists checks whether the user owns a product with the given id
func (r *productRepository) Exists(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE user_id = $1 AND id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// scanProduct scans one product row from a pgx.Row
func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	var photos []byte

	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Quantity, &p.Price,
		&photos, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &p.Photos); err != nil {
			return nil, fmt.Errorf("failed to decode photos: %w", err)
		}
	}

	return p, nil
}

// scanProductRow adapts scanProduct for ScanMany
func scanProductRow(rows pgx.Rows) (*domain.Product, error) {
	return scanProduct(rows)
}
