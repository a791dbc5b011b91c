// internal/handlers/checkout.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/handlers/middleware"
)

// CheckoutHandler handles the two stock-mutating flows: selling a cart and
// receiving a delivery.
type CheckoutHandler struct {
	stock  ports.StockService
	logger *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(stock ports.StockService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		stock:  stock,
		logger: logger.With(slog.String("handler", "checkout")),
	}
}

// CheckoutRequest represents the request body for a checkout
type CheckoutRequest struct {
	Cart []domain.CartLine `json:"cart"`
}

// ReceiveRequest represents the request body for a stock receipt
type ReceiveRequest struct {
	Items []domain.ReceiptLine `json:"items"`
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.stock.Checkout(ctx, userID, req.Cart)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsInsufficientStock(err) && !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "checkout failed",
				slog.Int("cart_lines", len(req.Cart)),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "checkout completed",
		slog.String("invoice_id", invoice.ID.String()),
		slog.Int("line_count", len(invoice.Items)),
		slog.String("total", invoice.Total.StringFixed(2)))

	respondJSON(w, h.logger, http.StatusCreated, invoice)
}

// Receive handles POST /api/v1/receive
func (h *CheckoutHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req ReceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.stock.Receive(ctx, userID, req.Items)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "receive failed",
				slog.Int("line_count", len(req.Items)),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "stock received",
		slog.String("receipt_id", receipt.ID.String()),
		slog.Int("line_count", len(receipt.Items)))

	respondJSON(w, h.logger, http.StatusCreated, receipt)
}
