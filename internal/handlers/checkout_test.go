// internal/handlers/checkout_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	"github.com/ammerola/lavka-be/internal/handlers"
	"github.com/ammerola/lavka-be/internal/pkg/logger"
	"github.com/ammerola/lavka-be/test/helpers"
	"github.com/ammerola/lavka-be/test/mocks"
)

const testUserID = "user-123"

// authedRequest builds a request carrying an authenticated identity, the way
// the auth middleware would have left it.
func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), logger.ContextKeyUserID, testUserID)
	return req.WithContext(ctx)
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockStockService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successful_checkout",
			body: `{"cart":[{"product_id":"` + productID.String() + `","quantity":2}]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, []domain.CartLine{
						{ProductID: productID, Quantity: 2},
					}).
					Return(&domain.Invoice{
						ID:        uuid.New(),
						CreatedAt: time.Now(),
						Items: []domain.InvoiceItem{
							{ProductID: productID, Name: "Octopus plush", Quantity: 2, Price: decimal.NewFromInt(200)},
						},
						Total: decimal.NewFromInt(400),
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var invoice domain.Invoice
				require.NoError(t, json.Unmarshal(body, &invoice))
				assert.Len(t, invoice.Items, 1)
				assert.True(t, invoice.Total.Equal(decimal.NewFromInt(400)))
			},
		},
		{
			name:           "malformed_body",
			body:           `{"cart":`,
			setupMocks:     func(m *mocks.MockStockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty_cart_rejected",
			body: `{"cart":[]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, gomock.Any()).
					Return(nil, &domain.ValidationError{Field: "cart", Reason: "cart is empty"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient_stock_conflicts",
			body: `{"cart":[{"product_id":"` + productID.String() + `","quantity":50}]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, gomock.Any()).
					Return(nil, &domain.InsufficientStockError{
						ProductID:   productID,
						ProductName: "Octopus plush",
						Available:   3,
						Requested:   50,
					})
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body []byte) {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Contains(t, resp["error"], "Octopus plush")
			},
		},
		{
			name: "unknown_product_not_found",
			body: `{"cart":[{"product_id":"` + productID.String() + `","quantity":1}]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, gomock.Any()).
					Return(nil, &domain.NotFoundError{ProductID: productID})
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "exhausted_retries_conflict",
			body: `{"cart":[{"product_id":"` + productID.String() + `","quantity":1}]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, gomock.Any()).
					Return(nil, domain.ErrTransactionConflict)
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body []byte) {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Contains(t, resp["error"], "retry")
			},
		},
		{
			name: "storage_failure",
			body: `{"cart":[{"product_id":"` + productID.String() + `","quantity":1}]}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().
					Checkout(gomock.Any(), testUserID, gomock.Any()).
					Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(body, &resp))
				// Internal detail never leaks to the client
				assert.NotContains(t, resp["error"], "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stock := mocks.NewMockStockService(ctrl)
			tt.setupMocks(stock)

			handler := handlers.NewCheckoutHandler(stock, helpers.TestLogger())
			req := authedRequest(http.MethodPost, "/api/v1/checkout", []byte(tt.body))
			rec := httptest.NewRecorder()

			handler.Checkout(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, rec.Body.Bytes())
			}
		})
	}
}

func TestCheckoutHandler_Receive(t *testing.T) {
	productID := uuid.New()

	t.Run("successful_receive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stock := mocks.NewMockStockService(ctrl)
		stock.EXPECT().
			Receive(gomock.Any(), testUserID, []domain.ReceiptLine{
				{ProductID: productID, Quantity: 5},
			}).
			Return(&domain.Receipt{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
				Items: []domain.ReceiptItem{
					{ProductID: productID, Name: "Octopus plush", QuantityAdded: 5, NewQuantity: 8},
				},
			}, nil)

		handler := handlers.NewCheckoutHandler(stock, helpers.TestLogger())
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":5}]}`
		rec := httptest.NewRecorder()

		handler.Receive(rec, authedRequest(http.MethodPost, "/api/v1/receive", []byte(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		var receipt domain.Receipt
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
		require.Len(t, receipt.Items, 1)
		assert.Equal(t, 8, receipt.Items[0].NewQuantity)
	})

	t.Run("validation_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stock := mocks.NewMockStockService(ctrl)
		stock.EXPECT().
			Receive(gomock.Any(), testUserID, gomock.Any()).
			Return(nil, &domain.ValidationError{Field: "items", Reason: "no items to receive"})

		handler := handlers.NewCheckoutHandler(stock, helpers.TestLogger())
		rec := httptest.NewRecorder()

		handler.Receive(rec, authedRequest(http.MethodPost, "/api/v1/receive", []byte(`{"items":[]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
