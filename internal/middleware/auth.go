package middleware

import (
	"context"
	"net/http"
	"strings"

	"couple-journal-backend/internal/apperr"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	UserID(token string) (string, error)
}

// AuthMiddleware creates a middleware for JWT authentication
func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperr.Write(w, apperr.Unauthorized("Authorization header required"))
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apperr.Write(w, apperr.Unauthorized("Invalid authorization header format"))
				return
			}

			userID, err := tokens.UserID(parts[1])
			if err != nil {
				apperr.Write(w, apperr.Unauthorized("Invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID stores the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// RequireUserID returns the caller's id or UNAUTHORIZED
func RequireUserID(ctx context.Context) (string, error) {
	if id := GetUserID(ctx); id != "" {
		return id, nil
	}
	return "", apperr.Unauthorized("")
}

// ValidateWebSocketToken validates JWT token from WebSocket query parameter
func ValidateWebSocketToken(token string, tokens TokenVerifier) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized("Token required")
	}
	userID, err := tokens.UserID(token)
	if err != nil {
		return "", apperr.Unauthorized("Invalid token")
	}
	return userID, nil
}
