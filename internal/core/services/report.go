// internal/core/services/report.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
)

// summaryCacheTTL keeps the revenue summary warm between dashboard polls
const summaryCacheTTL = time.Minute

// RevenueSummary aggregates committed invoices over a period
type RevenueSummary struct {
	PeriodDays   int             `json:"period_days"`
	InvoiceCount int             `json:"invoice_count"`
	ItemsSold    int             `json:"items_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// ReportService serves read-only aggregates: the low-stock report and the
// revenue summary. Everything here is derived from committed state.
type ReportService struct {
	products ports.ProductRepository
	history  ports.HistoryRepository
	kv       ports.KeyValueStore
	logger   *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(products ports.ProductRepository, history ports.HistoryRepository, kv ports.KeyValueStore, logger *slog.Logger) *ReportService {
	return &ReportService{
		products: products,
		history:  history,
		kv:       kv,
		logger:   logger.With(slog.String("service", "report")),
	}
}

// LowStock returns the user's products below the low-stock threshold
func (s *ReportService) LowStock(ctx context.Context, userID string) ([]*domain.Product, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	page, err := s.products.FindAll(ctx, userID, ports.ProductQuery{
		LowStock:  true,
		SortBy:    "quantity",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}

	return page.Items, nil
}

// Revenue aggregates the user's invoices over the trailing period. Results
// are cached briefly; staleness up to the TTL is acceptable here.
func (s *ReportService) Revenue(ctx context.Context, userID string, days int) (*RevenueSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if days <= 0 {
		days = 30
	}

	cacheKey := fmt.Sprintf("summary:revenue:%s:%d", userID, days)
	cached := &RevenueSummary{}
	if err := s.kv.Get(ctx, cacheKey, cached); err == nil {
		return cached, nil
	} else if err != ports.ErrKeyNotFound {
		s.logger.WarnContext(ctx, "failed to read summary cache",
			slog.Any("error", err))
	}

	since := time.Now().AddDate(0, 0, -days)
	invoices, err := s.history.InvoicesSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	summary := &RevenueSummary{
		PeriodDays:  days,
		Revenue:     decimal.Zero,
		GeneratedAt: time.Now(),
	}
	for _, inv := range invoices {
		summary.InvoiceCount++
		summary.Revenue = summary.Revenue.Add(inv.Total)
		for _, item := range inv.Items {
			summary.ItemsSold += item.Quantity
		}
	}

	if err := s.kv.Set(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache revenue summary",
			slog.Any("error", err))
	}

	return summary, nil
}
