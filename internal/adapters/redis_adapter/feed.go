// internal/adapters/redis/feed.go
package redis_a

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/lavka-be/internal/core/ports"
)

// Feed implements ports.Notifier on Redis pub/sub. One channel per user and
// collection; messages carry no payload, subscribers re-read the collection
// and fan a fresh snapshot out to their clients.
type Feed struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*Feed)(nil)

// NewFeed creates a new change-notification feed
func NewFeed(client *redis.Client, logger *slog.Logger) *Feed {
	return &Feed{
		client: client,
		logger: logger.With(slog.String("component", "feed")),
	}
}

func channelName(userID, collection string) string {
	return fmt.Sprintf("feed:%s:%s", userID, collection)
}

// Publish announces that the named collections changed for the user. Errors
// are logged and returned but callers treat publication as best effort: the
// transaction that caused the change has already committed.
func (f *Feed) Publish(ctx context.Context, userID string, collections ...string) error {
	var firstErr error
	for _, collection := range collections {
		ch := channelName(userID, collection)
		if err := f.client.Publish(ctx, ch, "1").Err(); err != nil {
			f.logger.WarnContext(ctx, "failed to publish change notification",
				slog.String("channel", ch),
				slog.Any("error", err))
			if firstErr == nil {
				firstErr = fmt.Errorf("redis publish error: %w", err)
			}
		}
	}
	return firstErr
}

// Subscribe invokes fn once per change notification for the user's
// collection. The returned stop function closes the subscription and ends
// the receive goroutine.
func (f *Feed) Subscribe(ctx context.Context, userID, collection string, fn func()) (func(), error) {
	ch := channelName(userID, collection)
	sub := f.client.Subscribe(ctx, ch)

	// Confirm the subscription before returning so callers never miss a
	// notification published after Subscribe returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe error: %w", err)
	}

	msgs := sub.Channel()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case _, ok := <-msgs:
				if !ok {
					return
				}
				fn()
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		close(done)
		if err := sub.Close(); err != nil {
			f.logger.Warn("failed to close subscription",
				slog.String("channel", ch),
				slog.Any("error", err))
		}
	}

	return stop, nil
}
