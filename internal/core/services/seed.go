// internal/core/services/seed.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// seedLockTTL bounds how long a crashed seeder can hold the lock
const seedLockTTL = 30 * time.Second

// SeederService provisions the starter catalog for accounts whose product
// collection is empty. Safe against concurrent callers: a short-lived
// Redis lock plus a count re-check prevent double seeding.
type SeederService struct {
	repo     ports.ProductRepository
	kv       ports.KeyValueStore
	notifier ports.Notifier
	logger   *slog.Logger
}

var _ ports.CatalogSeeder = (*SeederService)(nil)

// NewSeederService creates a new seeder service
func NewSeederService(repo ports.ProductRepository, kv ports.KeyValueStore, notifier ports.Notifier, logger *slog.Logger) *SeederService {
	return &SeederService{
		repo:     repo,
		kv:       kv,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "seeder")),
	}
}

// SeedIfEmpty inserts the starter catalog when the user has no products.
// Returns true when seeding actually ran.
func (s *SeederService) SeedIfEmpty(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}

	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	lockKey := fmt.Sprintf("seed:lock:%s", userID)
	acquired, err := s.kv.SetNX(ctx, lockKey, true, seedLockTTL)
	if err != nil {
		return false, fmt.Errorf("failed to acquire seed lock: %w", err)
	}
	if !acquired {
		// Another instance is seeding this account right now
		return false, nil
	}
	defer func() {
		if err := s.kv.Delete(ctx, lockKey); err != nil {
			s.logger.WarnContext(ctx, "failed to release seed lock",
				slog.String("key", lockKey),
				slog.Any("error", err))
		}
	}()

	// Re-check under the lock
	count, err = s.repo.Count(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to re-count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	catalog := domain.StarterCatalog()
	if err := s.repo.SaveBatch(ctx, userID, catalog); err != nil {
		return false, fmt.Errorf("failed to seed starter catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "starter catalog seeded",
		slog.String("user_id", userID),
		slog.Int("product_count", len(catalog)))

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, userID, ports.CollectionProducts); err != nil {
			s.logger.WarnContext(ctx, "failed to publish seed notification",
				slog.Any("error", err))
		}
	}

	return true, nil
}
