package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-agenda/internal/service"
	"clinic-agenda/pkg/jwt"
	"clinic-agenda/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	OperatorIDKey contextKey = "operator_id"
	UsernameKey   contextKey = "username"
	TokenIDKey    contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore service.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// Revoked on logout
		valid, err := m.tokenStore.Exists(r.Context(), claims.OperatorID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !valid {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithOperator(r.Context(), claims.OperatorID, claims.Username, claims.TokenID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOperator stores the authenticated operator on ctx.
func WithOperator(ctx context.Context, operatorID uuid.UUID, username, tokenID string) context.Context {
	ctx = context.WithValue(ctx, OperatorIDKey, operatorID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	return context.WithValue(ctx, TokenIDKey, tokenID)
}

// GetOperatorIDFromContext extracts operator ID from context
func GetOperatorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	operatorID, ok := ctx.Value(OperatorIDKey).(uuid.UUID)
	return operatorID, ok
}

// GetUsernameFromContext extracts operator username from context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
