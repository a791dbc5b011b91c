// internal/workers/invoice_pdf_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// InvoicePDFProcessor renders committed invoices to PDF and uploads the
// artifact to object storage.
type InvoicePDFProcessor struct {
	history ports.HistoryRepository
	store   ports.ObjectStore
	kv      ports.KeyValueStore
	logger  *slog.Logger
}

// NewInvoicePDFProcessor creates a new invoice PDF processor
func NewInvoicePDFProcessor(history ports.HistoryRepository, store ports.ObjectStore, kv ports.KeyValueStore, logger *slog.Logger) *InvoicePDFProcessor {
	return &InvoicePDFProcessor{
		history: history,
		store:   store,
		kv:      kv,
		logger:  logger.With(slog.String("processor", "invoice_pdf")),
	}
}

// ProcessInvoicePDF handles one export:invoice_pdf task
func (p *InvoicePDFProcessor) ProcessInvoicePDF(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload InvoicePDFPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "rendering invoice PDF",
		slog.String("job_id", payload.JobID),
		slog.String("invoice_id", payload.InvoiceID))

	updateJobStatus(ctx, p.kv, payload.JobID, &ExportJobStatus{
		JobID:     payload.JobID,
		Status:    StatusProcessing,
		StartedAt: start,
	})

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("invalid invoice id: %w", err))
	}

	invoice, err := p.history.FindInvoiceByID(ctx, payload.UserID, invoiceID)
	if err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to load invoice: %w", err))
	}

	data, err := renderInvoicePDF(invoice)
	if err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to render PDF: %w", err))
	}

	key := artifactKey(payload.UserID, fmt.Sprintf("invoice_%s.pdf", invoice.ID))
	if _, err := p.store.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to upload PDF: %w", err))
	}

	url, err := p.store.GetPresignedURL(ctx, key, JobStatusTTL)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to presign artifact URL",
			slog.String("key", key),
			slog.Any("error", err))
	}

	finished := time.Now()
	updateJobStatus(ctx, p.kv, payload.JobID, &ExportJobStatus{
		JobID:      payload.JobID,
		Status:     StatusCompleted,
		Key:        key,
		URL:        url,
		StartedAt:  start,
		FinishedAt: &finished,
	})

	p.logger.InfoContext(ctx, "invoice PDF rendered",
		slog.String("job_id", payload.JobID),
		slog.String("key", key),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

func (p *InvoicePDFProcessor) fail(ctx context.Context, jobID string, start time.Time, err error) error {
	finished := time.Now()
	updateJobStatus(ctx, p.kv, jobID, &ExportJobStatus{
		JobID:      jobID,
		Status:     StatusFailed,
		Error:      err.Error(),
		StartedAt:  start,
		FinishedAt: &finished,
	})
	return err
}

// renderInvoicePDF lays out a single invoice as an A4 document
func renderInvoicePDF(inv *domain.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Invoice")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Number: %s", inv.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", inv.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(90, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, item.Subtotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(150, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, inv.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// artifactKey builds a dated object key so cleanup can age artifacts out
func artifactKey(userID, filename string) string {
	return fmt.Sprintf("exports/%s/%s/%s", userID, time.Now().Format("20060102"), filename)
}

// updateJobStatus writes the job state. Status writes are best effort: a
// failed write never fails the job itself.
func updateJobStatus(ctx context.Context, kv ports.KeyValueStore, jobID string, status *ExportJobStatus) {
	if err := kv.Set(ctx, JobStatusKey(jobID), status, JobStatusTTL); err != nil {
		slog.Default().WarnContext(ctx, "failed to update job status",
			slog.String("job_id", jobID),
			slog.Any("error", err))
	}
}
