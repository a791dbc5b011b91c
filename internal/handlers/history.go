// internal/handlers/history.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/internal/handlers/middleware"
)

// HistoryHandler serves the immutable transaction history, the derived
// reports and the live snapshot stream.
type HistoryHandler struct {
	history ports.HistoryRepository
	live    *services.LiveService
	report  *services.ReportService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history ports.HistoryRepository, live *services.LiveService, report *services.ReportService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		live:    live,
		report:  report,
		logger:  logger.With(slog.String("handler", "history")),
	}
}

// ListInvoices handles GET /api/v1/invoices
func (h *HistoryHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	invoices, err := h.history.ListInvoices(ctx, userID, parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list invoices",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

// GetInvoice handles GET /api/v1/invoices/{id}
func (h *HistoryHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	invoice, err := h.history.FindInvoiceByID(ctx, userID, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			h.logger.ErrorContext(ctx, "failed to get invoice",
				slog.String("invoice_id", id.String()),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, invoice)
}

// ListReceipts handles GET /api/v1/receipts
func (h *HistoryHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	receipts, err := h.history.ListReceipts(ctx, userID, parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list receipts",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"receipts": receipts})
}

// ListLedger handles GET /api/v1/ledger
func (h *HistoryHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	entries, err := h.history.ListLedger(ctx, userID, parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list ledger",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"entries": entries})
}

// LedgerForProduct handles GET /api/v1/ledger/products/{id}
func (h *HistoryHandler) LedgerForProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	entries, err := h.history.ListLedgerForProduct(ctx, userID, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list product ledger",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Revenue handles GET /api/v1/reports/revenue
func (h *HistoryHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}

	summary, err := h.report.Revenue(ctx, userID, days)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute revenue summary",
			slog.Int("days", days),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, summary)
}

// LowStock handles GET /api/v1/reports/low-stock
func (h *HistoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	products, err := h.report.LowStock(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list low stock products",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"products": products})
}

// Stream handles GET /api/v1/stream/{collection} as server-sent events.
// The first event is the current snapshot; every committed change to the
// collection pushes a fresh full snapshot.
func (h *HistoryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	collection := r.PathValue("collection")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, h.logger, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Lift the server write deadline for this long-lived connection
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.WarnContext(ctx, "failed to clear write deadline",
			slog.String("error", err.Error()))
	}

	snapshots, stop, err := h.live.Stream(ctx, userID, collection)
	if err != nil {
		if !domain.IsValidation(err) {
			h.logger.ErrorContext(ctx, "failed to open snapshot stream",
				slog.String("collection", collection),
				slog.String("error", err.Error()))
		}
		respondDomainError(w, h.logger, err)
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.InfoContext(ctx, "snapshot stream opened",
		slog.String("collection", collection))

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, open := <-snapshots:
			if !open {
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.ErrorContext(ctx, "failed to encode snapshot",
					slog.String("collection", collection),
					slog.String("error", err.Error()))
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func parseLimit(r *http.Request) int {
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			return l
		}
	}
	return 0
}
