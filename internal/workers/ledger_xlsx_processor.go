// internal/workers/ledger_xlsx_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// LedgerXLSXProcessor exports a user's full stock ledger as a workbook and
// uploads it to object storage.
type LedgerXLSXProcessor struct {
	history ports.HistoryRepository
	store   ports.ObjectStore
	kv      ports.KeyValueStore
	logger  *slog.Logger
}

// NewLedgerXLSXProcessor creates a new ledger export processor
func NewLedgerXLSXProcessor(history ports.HistoryRepository, store ports.ObjectStore, kv ports.KeyValueStore, logger *slog.Logger) *LedgerXLSXProcessor {
	return &LedgerXLSXProcessor{
		history: history,
		store:   store,
		kv:      kv,
		logger:  logger.With(slog.String("processor", "ledger_xlsx")),
	}
}

// ProcessLedgerXLSX handles one export:ledger_xlsx task
func (p *LedgerXLSXProcessor) ProcessLedgerXLSX(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload LedgerXLSXPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "exporting ledger workbook",
		slog.String("job_id", payload.JobID),
		slog.String("user_id", payload.UserID))

	updateJobStatus(ctx, p.kv, payload.JobID, &ExportJobStatus{
		JobID:     payload.JobID,
		Status:    StatusProcessing,
		StartedAt: start,
	})

	entries, err := p.history.ListLedger(ctx, payload.UserID, 0)
	if err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to load ledger: %w", err))
	}

	data, err := renderLedgerWorkbook(entries)
	if err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to render workbook: %w", err))
	}

	key := artifactKey(payload.UserID, fmt.Sprintf("ledger_%s.xlsx", time.Now().Format("20060102_150405")))
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if _, err := p.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return p.fail(ctx, payload.JobID, start, fmt.Errorf("failed to upload workbook: %w", err))
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

	p.logger.InfoContext(ctx, "ledger workbook exported",
		slog.String("job_id", payload.JobID),
		slog.Int("entry_count", len(entries)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

func (p *LedgerXLSXProcessor) fail(ctx context.Context, jobID string, start time.Time, err error) error {
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

// renderLedgerWorkbook writes all entries into a single sheet, newest first
func renderLedgerWorkbook(entries []*domain.LedgerEntry) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Ledger")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Timestamp", "Product", "Product ID", "Type",
		"Change", "Before", "After",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = e.Timestamp.Format("2006-01-02 15:04:05")
		row.AddCell().Value = e.ProductName
		row.AddCell().Value = e.ProductID.String()
		row.AddCell().Value = string(e.Type)
		row.AddCell().SetInt(e.QuantityChange)
		row.AddCell().SetInt(e.BeforeQuantity)
		row.AddCell().SetInt(e.AfterQuantity)
	}

	for i := range headers {
		sheet.SetColWidth(i, i, 20)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
