// internal/core/ports/object_store.go
package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStore persists binary artifacts: product photos and rendered
// exports (invoice PDFs, ledger workbooks). Returned URLs are what gets
// stored on the product / handed to the client.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
