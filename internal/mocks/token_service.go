package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/todo-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	IssueTokenFn    func(ctx context.Context, accountID int64, email string) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Token and Claims are returned when the matching Fn is nil.
	Token     string
	ExpiresAt time.Time
	Claims    *auth.Claims
	Err       error
}

var _ auth.TokenService = (*MockTokenService)(nil)

// GenerateToken implements auth.TokenService.
func (m *MockTokenService) GenerateToken(ctx context.Context, accountID int64, email string) (string, error) {
	token, _, err := m.IssueToken(ctx, accountID, email)
	return token, err
}

// IssueToken implements auth.TokenService.
func (m *MockTokenService) IssueToken(
	ctx context.Context,
	accountID int64,
	email string,
) (string, time.Time, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, accountID, email)
	}
	if m.Err != nil {
		return "", time.Time{}, m.Err
	}
	return m.Token, m.ExpiresAt, nil
}

// ValidateToken implements auth.TokenService.
func (m *MockTokenService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Claims == nil {
		return nil, errors.New("mock token service has no claims configured")
	}
	return m.Claims, nil
}
