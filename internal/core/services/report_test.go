// internal/core/services/report_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/test/helpers"
	"github.com/ammerola/lavka-be/test/mocks"
)

func TestReportService_LowStock(t *testing.T) {
	const userID = "user-123"

	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	history := mocks.NewMockHistoryRepository(ctrl)
	kv := mocks.NewMockKeyValueStore(ctrl)

	low := helpers.CreateTestProduct(func(p *domain.Product) { p.Quantity = 2 })
	products.EXPECT().
		FindAll(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, uid string, q ports.ProductQuery) (*ports.ProductPage, error) {
			assert.True(t, q.LowStock)
			assert.Equal(t, "quantity", q.SortBy)
			assert.Equal(t, "asc", q.SortOrder)
			return &ports.ProductPage{Items: []*domain.Product{low}, TotalCount: 1}, nil
		})

	svc := services.NewReportService(products, history, kv, helpers.TestLogger())
	items, err := svc.LowStock(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestReportService_LowStock_RequiresUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := services.NewReportService(
		mocks.NewMockProductRepository(ctrl),
		mocks.NewMockHistoryRepository(ctrl),
		mocks.NewMockKeyValueStore(ctrl),
		helpers.TestLogger(),
	)

	_, err := svc.LowStock(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestReportService_Revenue(t *testing.T) {
	const userID = "user-123"

	tests := []struct {
		name            string
		days            int
		setupMocks      func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore)
		expectedDays    int
		expectedCount   int
		expectedSold    int
		expectedRevenue string
		errorContains   string
	}{
		{
			name: "aggregates_invoices_on_cache_miss",
			days: 7,
			setupMocks: func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), "summary:revenue:"+userID+":7", gomock.Any()).
					Return(ports.ErrKeyNotFound)
				history.EXPECT().
					InvoicesSince(gomock.Any(), userID, gomock.Any()).
					Return([]*domain.Invoice{
						{
							Total: decimal.NewFromInt(400),
							Items: []domain.InvoiceItem{
								{Quantity: 2, Price: decimal.NewFromInt(200)},
							},
						},
						{
							Total: decimal.RequireFromString("149.50"),
							Items: []domain.InvoiceItem{
								{Quantity: 1, Price: decimal.RequireFromString("99.50")},
								{Quantity: 1, Price: decimal.NewFromInt(50)},
							},
						},
					}, nil)
				kv.EXPECT().
					Set(gomock.Any(), "summary:revenue:"+userID+":7", gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedDays:    7,
			expectedCount:   2,
			expectedSold:    4,
			expectedRevenue: "549.50",
		},
		{
			name: "serves_cached_summary",
			days: 30,
			setupMocks: func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), "summary:revenue:"+userID+":30", gomock.Any()).
					DoAndReturn(func(ctx context.Context, key string, dest any) error {
						summary := dest.(*services.RevenueSummary)
						summary.PeriodDays = 30
						summary.InvoiceCount = 5
						summary.ItemsSold = 9
						summary.Revenue = decimal.NewFromInt(1800)
						summary.GeneratedAt = time.Now()
						return nil
					})
			},
			expectedDays:    30,
			expectedCount:   5,
			expectedSold:    9,
			expectedRevenue: "1800",
		},
		{
			name: "defaults_period_to_thirty_days",
			days: 0,
			setupMocks: func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), "summary:revenue:"+userID+":30", gomock.Any()).
					Return(ports.ErrKeyNotFound)
				history.EXPECT().
					InvoicesSince(gomock.Any(), userID, gomock.Any()).
					Return(nil, nil)
				kv.EXPECT().
					Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedDays:    30,
			expectedRevenue: "0",
		},
		{
			name: "history_failure",
			days: 7,
			setupMocks: func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(ports.ErrKeyNotFound)
				history.EXPECT().
					InvoicesSince(gomock.Any(), userID, gomock.Any()).
					Return(nil, errors.New("query timeout"))
			},
			errorContains: "failed to load invoices",
		},
		{
			name: "cache_write_failure_is_not_fatal",
			days: 7,
			setupMocks: func(history *mocks.MockHistoryRepository, kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(ports.ErrKeyNotFound)
				history.EXPECT().
					InvoicesSince(gomock.Any(), userID, gomock.Any()).
					Return(nil, nil)
				kv.EXPECT().
					Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("redis down"))
			},
			expectedDays:    7,
			expectedRevenue: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			products := mocks.NewMockProductRepository(ctrl)
			history := mocks.NewMockHistoryRepository(ctrl)
			kv := mocks.NewMockKeyValueStore(ctrl)
			tt.setupMocks(history, kv)

			svc := services.NewReportService(products, history, kv, helpers.TestLogger())
			summary, err := svc.Revenue(context.Background(), userID, tt.days)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedDays, summary.PeriodDays)
			assert.Equal(t, tt.expectedCount, summary.InvoiceCount)
			assert.Equal(t, tt.expectedSold, summary.ItemsSold)
			expected := decimal.RequireFromString(tt.expectedRevenue)
			assert.True(t, summary.Revenue.Equal(expected),
				"expected revenue %s, got %s", expected, summary.Revenue)
		})
	}
}
