// internal/handlers/history_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/internal/handlers"
	"github.com/ammerola/lavka-be/test/helpers"
	"github.com/ammerola/lavka-be/test/mocks"
)

type historyHandlerMocks struct {
	history  *mocks.MockHistoryRepository
	products *mocks.MockProductRepository
	kv       *mocks.MockKeyValueStore
	notifier *mocks.MockNotifier
}

func newHistoryHandler(t *testing.T) (*handlers.HistoryHandler, historyHandlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := historyHandlerMocks{
		history:  mocks.NewMockHistoryRepository(ctrl),
		products: mocks.NewMockProductRepository(ctrl),
		kv:       mocks.NewMockKeyValueStore(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	logger := helpers.TestLogger()
	live := services.NewLiveService(m.products, m.history, m.notifier, logger)
	report := services.NewReportService(m.products, m.history, m.kv, logger)
	return handlers.NewHistoryHandler(m.history, live, report, logger), m
}

func TestHistoryHandler_ListInvoices(t *testing.T) {
	h, m := newHistoryHandler(t)

	m.history.EXPECT().
		ListInvoices(gomock.Any(), testUserID, 25).
		Return([]*domain.Invoice{
			{ID: uuid.New(), CreatedAt: time.Now(), Total: decimal.NewFromInt(400)},
		}, nil)

	rec := httptest.NewRecorder()
	h.ListInvoices(rec, authedRequest(http.MethodGet, "/api/v1/invoices?limit=25", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]*domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["invoices"], 1)
}

func TestHistoryHandler_GetInvoice(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("found", func(t *testing.T) {
		h, m := newHistoryHandler(t)
		m.history.EXPECT().
			FindInvoiceByID(gomock.Any(), testUserID, invoiceID).
			Return(&domain.Invoice{ID: invoiceID, Total: decimal.NewFromInt(200)}, nil)

		req := authedRequest(http.MethodGet, "/api/v1/invoices/"+invoiceID.String(), nil)
		req.SetPathValue("id", invoiceID.String())
		rec := httptest.NewRecorder()

		h.GetInvoice(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var invoice domain.Invoice
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
		assert.Equal(t, invoiceID, invoice.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		h, m := newHistoryHandler(t)
		m.history.EXPECT().
			FindInvoiceByID(gomock.Any(), testUserID, invoiceID).
			Return(nil, &domain.NotFoundError{ProductID: invoiceID})

		req := authedRequest(http.MethodGet, "/api/v1/invoices/"+invoiceID.String(), nil)
		req.SetPathValue("id", invoiceID.String())
		rec := httptest.NewRecorder()

		h.GetInvoice(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid_id", func(t *testing.T) {
		h, _ := newHistoryHandler(t)
		req := authedRequest(http.MethodGet, "/api/v1/invoices/xyz", nil)
		req.SetPathValue("id", "xyz")
		rec := httptest.NewRecorder()

		h.GetInvoice(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHistoryHandler_ListLedger(t *testing.T) {
	h, m := newHistoryHandler(t)

	entry := helpers.CreateTestLedgerEntry()
	m.history.EXPECT().
		ListLedger(gomock.Any(), testUserID, 0).
		Return([]*domain.LedgerEntry{entry}, nil)

	rec := httptest.NewRecorder()
	h.ListLedger(rec, authedRequest(http.MethodGet, "/api/v1/ledger", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]*domain.LedgerEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["entries"], 1)
	assert.True(t, resp["entries"][0].Consistent())
}

func TestHistoryHandler_LedgerForProduct(t *testing.T) {
	productID := uuid.New()

	h, m := newHistoryHandler(t)
	m.history.EXPECT().
		ListLedgerForProduct(gomock.Any(), testUserID, productID).
		Return([]*domain.LedgerEntry{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/ledger/products/"+productID.String(), nil)
	req.SetPathValue("id", productID.String())
	rec := httptest.NewRecorder()

	h.LedgerForProduct(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHistoryHandler_Revenue(t *testing.T) {
	h, m := newHistoryHandler(t)

	m.kv.EXPECT().
		Get(gomock.Any(), "summary:revenue:"+testUserID+":7", gomock.Any()).
		Return(ports.ErrKeyNotFound)
	m.history.EXPECT().
		InvoicesSince(gomock.Any(), testUserID, gomock.Any()).
		Return([]*domain.Invoice{
			{Total: decimal.NewFromInt(600), Items: []domain.InvoiceItem{{Quantity: 3}}},
		}, nil)
	m.kv.EXPECT().
		Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	rec := httptest.NewRecorder()
	h.Revenue(rec, authedRequest(http.MethodGet, "/api/v1/reports/revenue?days=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary services.RevenueSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 7, summary.PeriodDays)
	assert.Equal(t, 1, summary.InvoiceCount)
	assert.Equal(t, 3, summary.ItemsSold)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(600)))
}

func TestHistoryHandler_LowStock(t *testing.T) {
	h, m := newHistoryHandler(t)

	low := helpers.CreateTestProduct(func(p *domain.Product) { p.Quantity = 1 })
	m.products.EXPECT().
		FindAll(gomock.Any(), testUserID, gomock.Any()).
		Return(&ports.ProductPage{Items: []*domain.Product{low}, TotalCount: 1}, nil)

	rec := httptest.NewRecorder()
	h.LowStock(rec, authedRequest(http.MethodGet, "/api/v1/reports/low-stock", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]*domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["products"], 1)
	assert.True(t, resp["products"][0].IsLowStock())
}

func TestHistoryHandler_Stream_RejectsUnknownCollection(t *testing.T) {
	h, _ := newHistoryHandler(t)

	req := authedRequest(http.MethodGet, "/api/v1/stream/settings", nil)
	req.SetPathValue("collection", "settings")
	rec := httptest.NewRecorder()

	h.Stream(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
