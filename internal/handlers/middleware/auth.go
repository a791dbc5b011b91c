// internal/handlers/middleware/auth.go
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ammerola/lavka-be/internal/pkg/logger"
)

// Auth middleware verifies the bearer token and injects the user ID into the
// request context. Every data route is scoped to that user.
func Auth(secret string, slogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				unauthorized(w, "missing credentials")
				return
			}

			userID, err := verifyToken(tokenString, secret)
			if err != nil {
				slogger.WarnContext(r.Context(), "token verification failed",
					slog.Any("error", err))
				unauthorized(w, "invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), logger.ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID from the request context
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(logger.ContextKeyUserID).(string)
	return userID
}

// extractToken pulls the token from the Authorization header, falling back to
// the token query parameter for EventSource clients that cannot set headers.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// verifyToken validates the HMAC signature and returns the subject claim
func verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read subject claim: %w", err)
	}
	if subject == "" {
		return "", fmt.Errorf("token has no subject claim")
	}

	return subject, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
