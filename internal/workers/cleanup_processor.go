// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/lavka-be/internal/core/ports"
)

// artifactRetention is how long rendered export artifacts are kept
const artifactRetention = 7 * 24 * time.Hour

// CleanupProcessor ages out export artifacts from object storage. Artifact
// keys embed their creation date (exports/{user}/{yyyymmdd}/{file}), so no
// metadata lookup is needed.
type CleanupProcessor struct {
	store  ports.ObjectStore
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(store ports.ObjectStore, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		store:  store,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupArtifacts removes export artifacts past their retention window
func (p *CleanupProcessor) CleanupArtifacts(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up export artifacts")

	keys, err := p.store.List(ctx, "exports/")
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-artifactRetention)
	var deleted int

	for _, key := range keys {
		created, ok := keyDate(key)
		if !ok {
			p.logger.WarnContext(ctx, "skipping artifact with unparseable key",
				slog.String("key", key))
			continue
		}
		if created.After(cutoff) {
			continue
		}

		if err := p.store.Delete(ctx, key); err != nil {
			p.logger.WarnContext(ctx, "failed to delete artifact",
				slog.String("key", key),
				slog.Any("error", err))
			continue
		}
		deleted++
	}

	p.logger.InfoContext(ctx, "artifact cleanup completed",
		slog.Int("scanned", len(keys)),
		slog.Int("deleted", deleted))

	return nil
}

// keyDate parses the date segment out of an artifact key
func keyDate(key string) (time.Time, bool) {
	parts := strings.Split(key, "/")
	if len(parts) < 4 {
		return time.Time{}, false
	}
	ts, err := time.Parse("20060102", parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
