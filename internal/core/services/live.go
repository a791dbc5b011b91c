// internal/core/services/live.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// LiveService turns change notifications into full collection snapshots.
// Subscribers get the current state immediately and a fresh snapshot after
// every committed mutation; there is no incremental diffing.
type LiveService struct {
	products ports.ProductRepository
	history  ports.HistoryRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewLiveService creates a new live snapshot service
func NewLiveService(products ports.ProductRepository, history ports.HistoryRepository, notifier ports.Notifier, logger *slog.Logger) *LiveService {
	return &LiveService{
		products: products,
		history:  history,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "live")),
	}
}

func validCollection(name string) bool {
	switch name {
	case ports.CollectionProducts, ports.CollectionInvoices, ports.CollectionReceipts, ports.CollectionLedger:
		return true
	}
	return false
}

// Snapshot reads the current full contents of one collection
func (s *LiveService) Snapshot(ctx context.Context, userID, collection string) (interface{}, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	switch collection {
	case ports.CollectionProducts:
		page, err := s.products.FindAll(ctx, userID, ports.ProductQuery{})
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	case ports.CollectionInvoices:
		return s.history.ListInvoices(ctx, userID, 0)
	case ports.CollectionReceipts:
		return s.history.ListReceipts(ctx, userID, 0)
	case ports.CollectionLedger:
		return s.history.ListLedger(ctx, userID, 0)
	default:
		return nil, &domain.ValidationError{Field: "collection", Reason: fmt.Sprintf("unknown collection %q", collection)}
	}
}

// Stream emits a snapshot now and another after every change notification
// until ctx is cancelled or the returned stop function is called. Bursts of
// notifications between two reads coalesce into a single snapshot.
func (s *LiveService) Stream(ctx context.Context, userID, collection string) (<-chan interface{}, func(), error) {
	if userID == "" {
		return nil, nil, domain.ErrUnauthenticated
	}

	// Validate the collection name before subscribing
	if !validCollection(collection) {
		return nil, nil, &domain.ValidationError{Field: "collection", Reason: fmt.Sprintf("unknown collection %q", collection)}
	}

	out := make(chan interface{}, 1)
	trigger := make(chan struct{}, 1)

	notify := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	stopSub, err := s.notifier.Subscribe(ctx, userID, collection, notify)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(out)

		emit := func() bool {
			snapshot, err := s.Snapshot(ctx, userID, collection)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to read snapshot",
					slog.String("collection", collection),
					slog.Any("error", err))
				return true
			}
			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			case <-done:
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-trigger:
				if !emit() {
					return
				}
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var stopped bool
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		stopSub()
		close(done)
	}

	return out, stop, nil
}
