// internal/handlers/middleware/auth_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/lavka-be/internal/handlers/middleware"
	"github.com/ammerola/lavka-be/test/helpers"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validToken(t *testing.T, subject string) string {
	return signToken(t, testSecret, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name           string
		setupRequest   func(t *testing.T, r *http.Request)
		expectedStatus int
		expectedUserID string
	}{
		{
			name: "valid_bearer_token",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken(t, "user-123"))
			},
			expectedStatus: http.StatusOK,
			expectedUserID: "user-123",
		},
		{
			name: "token_via_query_param",
			setupRequest: func(t *testing.T, r *http.Request) {
				q := r.URL.Query()
				q.Set("token", validToken(t, "user-456"))
				r.URL.RawQuery = q.Encode()
			},
			expectedStatus: http.StatusOK,
			expectedUserID: "user-456",
		},
		{
			name:           "missing_credentials",
			setupRequest:   func(t *testing.T, r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed_authorization_header",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Token abc123")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong_secret",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", jwt.MapClaims{
					"sub": "user-123",
					"exp": time.Now().Add(time.Hour).Unix(),
				}))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired_token",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
					"sub": "user-123",
					"exp": time.Now().Add(-time.Hour).Unix(),
				}))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "token_without_subject",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
					"exp": time.Now().Add(time.Hour).Unix(),
				}))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage_token",
			setupRequest: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = middleware.UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := middleware.Auth(testSecret, helpers.TestLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			tt.setupRequest(t, req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedUserID != "" {
				assert.Equal(t, tt.expectedUserID, gotUserID)
			}
		})
	}
}

func TestUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.UserID(req.Context()))
}
