// internal/workers/types.go
package workers

import "time"

// Task type names, shared between the enqueueing handlers and the worker
const (
	TypeInvoicePDF       = "export:invoice_pdf"
	TypeLedgerXLSX       = "export:ledger_xlsx"
	TypeCleanupArtifacts = "cleanup:artifacts"
)

// Export job lifecycle states
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// JobStatusTTL is how long a finished job's status stays readable
const JobStatusTTL = 24 * time.Hour

// ExportJobStatus is the client-visible state of one export job, stored in
// the key-value store under JobStatusKey.
type ExportJobStatus struct {
	JobID      string     `json:"job_id"`
	Status     string     `json:"status"`
	Key        string     `json:"key,omitempty"`
	URL        string     `json:"url,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// JobStatusKey returns the key-value store key for an export job
func JobStatusKey(jobID string) string {
	return "export:job:" + jobID
}

// InvoicePDFPayload is the payload for invoice PDF rendering tasks
type InvoicePDFPayload struct {
	JobID     string `json:"job_id"`
	UserID    string `json:"user_id"`
	InvoiceID string `json:"invoice_id"`
}

// LedgerXLSXPayload is the payload for ledger workbook export tasks
type LedgerXLSXPayload struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
}
