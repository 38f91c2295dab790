// Package middleware provides the HTTP middleware that authenticates
// requests and attaches request-scoped trace ids and loggers.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

const bearerPrefix = "bearer "

// AuthMiddleware authenticates requests with identity tokens.
type AuthMiddleware struct {
	tokens auth.TokenService
	logger *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware verifying tokens with tokens.
func NewAuthMiddleware(tokens auth.TokenService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate reads the token from the Authorization header, either raw or
// with a Bearer prefix. A missing token is rejected with 401 and a token
// that fails verification with 403. On success the identity is stored in
// the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token := extractToken(r.Header.Get("Authorization"))
		if token == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Authorization token required", auth.ErrMissingToken)
			return
		}

		claims, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Debug("token rejected", "error", err)
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Invalid token", err)
				return
			}
			log.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		identity := domain.Identity{AccountID: claims.AccountID, Email: claims.Email}
		ctx := shared.WithIdentity(r.Context(), identity)
		ctx = logger.WithLogger(ctx, log.With(slog.Int64("account_id", identity.AccountID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken strips an optional, case-insensitive Bearer prefix.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		header = header[len(bearerPrefix):]
	}
	return strings.TrimSpace(header)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	return shared.IdentityFrom(ctx)
}

// GetIdentity returns the identity attached to r by Authenticate.
func GetIdentity(r *http.Request) (domain.Identity, bool) {
	return IdentityFromContext(r.Context())
}
