// internal/core/ports/product_repository.go
package ports

import (
	"context"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/google/uuid"
)

// ProductQuery holds filter, sort and pagination parameters for listing
// products.
type ProductQuery struct {
	Search    string
	Category  string
	LowStock  bool
	SortBy    string // name, price, quantity, created_at
	SortOrder string // asc, desc
	Limit     int
	Offset    int
}

// ProductPage represents one page of products
type ProductPage struct {
	Items      []*domain.Product `json:"items"`
	TotalCount int64             `json:"total_count"`
}

// ProductRepository defines the read/insert persistence port for products.
// All operations are scoped to the owning user. Quantity mutations are not
// part of this port: they go through the StockService so that every change
// is paired with a ledger entry in the same transaction.
type ProductRepository interface {
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Product, error)
	FindAll(ctx context.Context, userID string, q ProductQuery) (*ProductPage, error)
	Categories(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, p *domain.Product) error
	SaveBatch(ctx context.Context, userID string, products []domain.Product) error
	Count(ctx context.Context, userID string) (int64, error)
	Exists(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}
