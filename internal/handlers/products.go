// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/handlers/middleware"
)

// maxPhotoSizeBytes bounds a single photo upload
const maxPhotoSizeBytes = 10 << 20 // 10 MB

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	stock  ports.StockService
	repo   ports.ProductRepository
	seeder ports.CatalogSeeder
	store  ports.ObjectStore
	logger *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(stock ports.StockService, repo ports.ProductRepository, seeder ports.CatalogSeeder, store ports.ObjectStore, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		stock:  stock,
		repo:   repo,
		seeder: seeder,
		store:  store,
		logger: logger.With(slog.String("handler", "products")),
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	page, err := h.repo.FindAll(ctx, userID, h.parseProductQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.repo.FindByID(ctx, userID, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "failed to get product",
				slog.String("product_id", id.String()),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := req.ToDomain()
	if err := h.stock.AddProduct(ctx, userID, product); err != nil {
		if !domain.IsValidation(err) {
			h.logger.ErrorContext(ctx, "failed to create product",
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.String("name", product.Name))

	respondJSON(w, h.logger, http.StatusCreated, product)
}

// PatchProduct handles PATCH /api/v1/products/{id}
func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.stock.UpdateProduct(ctx, userID, id, patch)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "failed to update product",
				slog.String("product_id", id.String()),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id.String()))

	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.stock.DeleteProduct(ctx, userID, id); err != nil {
		if !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "failed to delete product",
				slog.String("product_id", id.String()),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id.String()))

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message":    "Product deleted successfully",
		"product_id": id.String(),
	})
}

// BulkDeleteProducts handles POST /api/v1/products/bulk-delete
func (h *ProductHandler) BulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	ids, err := req.ParseIDs()
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.stock.DeleteProducts(ctx, userID, ids)
	if err != nil {
		if domain.IsNotFound(err) && result != nil {
			// The batch aborted as a whole; report which ids sank it
			respondJSON(w, h.logger, http.StatusNotFound, result)
			return
		}
		h.logger.ErrorContext(ctx, "failed to bulk delete products",
			slog.Int("id_count", len(ids)),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "products deleted",
		slog.Int("count", len(result.Deleted)))

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListCategories handles GET /api/v1/products/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	categories, err := h.repo.Categories(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"categories": categories})
}

// SeedCatalog handles POST /api/v1/products/seed
func (h *ProductHandler) SeedCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	seeded, err := h.seeder.SeedIfEmpty(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to seed catalog",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"seeded": seeded})
}

// UploadPhoto handles POST /api/v1/products/photos
func (h *ProductHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	if err := r.ParseMultipartForm(maxPhotoSizeBytes); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSizeBytes {
		respondError(w, h.logger, http.StatusRequestEntityTooLarge, "Photo exceeds the 10 MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		respondError(w, h.logger, http.StatusUnsupportedMediaType, "Photo must be JPEG, PNG or WebP")
		return
	}

	key := fmt.Sprintf("photos/%s/%s%s", userID, uuid.New(), filepath.Ext(header.Filename))
	url, err := h.store.Upload(ctx, key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upload photo",
			slog.String("key", key),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	h.logger.InfoContext(ctx, "photo uploaded",
		slog.String("key", key),
		slog.Int64("size", header.Size))

	respondJSON(w, h.logger, http.StatusCreated, map[string]string{"url": url})
}

// parseProductQuery parses list query parameters with sane defaults
func (h *ProductHandler) parseProductQuery(r *http.Request) ports.ProductQuery {
	q := ports.ProductQuery{
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     50,
	}

	q.Search = r.URL.Query().Get("search")
	q.Category = r.URL.Query().Get("category")
	q.LowStock = r.URL.Query().Get("low_stock") == "true"

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		q.SortBy = sortBy
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		q.SortOrder = order
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 200 {
				l = 200
			}
			q.Limit = l
		}
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 1 {
			q.Offset = (p - 1) * q.Limit
		}
	}

	return q
}

// Request DTOs

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	SKU      string          `json:"sku,omitempty"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Photos   []string        `json:"photos"`
}

// ToDomain converts the request to a domain model
func (r *CreateProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		SKU:      r.SKU,
		Name:     r.Name,
		Category: r.Category,
		Quantity: r.Quantity,
		Price:    r.Price,
		Photos:   r.Photos,
	}
}

// BulkDeleteRequest represents the request body for bulk deletion
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// ParseIDs validates and parses the requested ids
func (r *BulkDeleteRequest) ParseIDs() ([]uuid.UUID, error) {
	if len(r.IDs) == 0 {
		return nil, fmt.Errorf("ids is required")
	}
	ids := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
