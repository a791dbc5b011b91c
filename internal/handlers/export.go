// internal/handlers/export.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/handlers/middleware"
	"github.com/ammerola/lavka-be/internal/workers"
)

// ExportHandler enqueues export jobs and reports their status. Rendering
// happens on the worker; the handler only hands out job ids.
type ExportHandler struct {
	client *asynq.Client
	kv     ports.KeyValueStore
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(client *asynq.Client, kv ports.KeyValueStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		client: client,
		kv:     kv,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// EnqueueInvoicePDF handles POST /api/v1/exports/invoices/{id}/pdf
func (h *ExportHandler) EnqueueInvoicePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	invoiceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	jobID := uuid.New().String()
	payload, err := json.Marshal(workers.InvoicePDFPayload{
		JobID:     jobID,
		UserID:    userID,
		InvoiceID: invoiceID.String(),
	})
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue export")
		return
	}

	h.enqueue(w, r, jobID, asynq.NewTask(workers.TypeInvoicePDF, payload))
}

// EnqueueLedgerXLSX handles POST /api/v1/exports/ledger/xlsx
func (h *ExportHandler) EnqueueLedgerXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	jobID := uuid.New().String()
	payload, err := json.Marshal(workers.LedgerXLSXPayload{
		JobID:  jobID,
		UserID: userID,
	})
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue export")
		return
	}

	h.enqueue(w, r, jobID, asynq.NewTask(workers.TypeLedgerXLSX, payload))
}

// JobStatus handles GET /api/v1/exports/jobs/{id}
func (h *ExportHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")

	if _, err := uuid.Parse(jobID); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var status workers.ExportJobStatus
	if err := h.kv.Get(ctx, workers.JobStatusKey(jobID), &status); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "Export job not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to read job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to read job status")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, status)
}

// enqueue records the queued status, submits the task and answers 202
func (h *ExportHandler) enqueue(w http.ResponseWriter, r *http.Request, jobID string, task *asynq.Task) {
	ctx := r.Context()

	status := &workers.ExportJobStatus{
		JobID:     jobID,
		Status:    workers.StatusQueued,
		StartedAt: time.Now(),
	}
	if err := h.kv.Set(ctx, workers.JobStatusKey(jobID), status, workers.JobStatusTTL); err != nil {
		h.logger.ErrorContext(ctx, "failed to record job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue export")
		return
	}

	info, err := h.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(3))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue export task",
			slog.String("job_id", jobID),
			slog.String("type", task.Type()),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue export")
		return
	}

	h.logger.InfoContext(ctx, "export task enqueued",
		slog.String("job_id", jobID),
		slog.String("type", task.Type()),
		slog.String("task_id", info.ID))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": workers.StatusQueued,
	})
}
