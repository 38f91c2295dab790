package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	claims := &auth.Claims{AccountID: 42, Email: "owner@example.com"}

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		wantToken      string
		expectedStatus int
	}{
		{
			name:           "raw token",
			authHeader:     "valid-token",
			wantToken:      "valid-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bearer token",
			authHeader:     "Bearer valid-token",
			wantToken:      "valid-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lowercase bearer",
			authHeader:     "bearer   valid-token ",
			wantToken:      "valid-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bearer without token",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bare bearer keyword",
			authHeader:     "Bearer",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "bad signature",
			authHeader:     "Bearer forged",
			validateErr:    auth.ErrInvalidSignature,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unexpected failure",
			authHeader:     "token",
			validateErr:    errors.New("keystore unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seenToken string
			validated := false
			tokens := &mocks.MockTokenService{
				ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
					validated = true
					seenToken = token
					if tt.validateErr != nil {
						return nil, tt.validateErr
					}
					return claims, nil
				},
			}

			var captured domain.Identity
			var found bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, found = GetIdentity(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			NewAuthMiddleware(tokens, nil).Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.False(t, validated, "a missing token is never validated")
			}
			if tt.expectedStatus != http.StatusOK {
				assert.False(t, found, "next handler must not run")

				var body map[string]string
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
				return
			}

			assert.Equal(t, tt.wantToken, seenToken)
			require.True(t, found)
			assert.Equal(t, int64(42), captured.AccountID)
			assert.Equal(t, "owner@example.com", captured.Email)
		})
	}
}

func TestAuthMiddlewareWithRealTokens(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	tokens := auth.NewTestTokenService(auth.TestSecret, func() time.Time { return clock })

	token, err := tokens.GenerateToken(context.Background(), 7, "seven@example.com")
	require.NoError(t, err)

	handler := NewAuthMiddleware(tokens, nil).Authenticate(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r)
			require.True(t, ok)
			assert.Equal(t, int64(7), identity.AccountID)
			w.WriteHeader(http.StatusNoContent)
		}))

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, serve())

	clock = now.Add(auth.TokenLifetime)
	assert.Equal(t, http.StatusForbidden, serve(), "token is rejected at exactly one hour")
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"abc":            "abc",
		"Bearer abc":     "abc",
		"BEARER abc":     "abc",
		"  Bearer  abc ": "abc",
		"Bearer":         "",
		"Basic abc":      "Basic abc",
	}
	for header, want := range tests {
		assert.Equal(t, want, extractToken(header), "header %q", header)
	}
}

func TestIdentityFromContextEmpty(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
