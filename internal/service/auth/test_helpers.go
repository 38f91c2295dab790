package auth

import (
	"fmt"
	"time"
)

// TestSecret is a signing secret long enough for NewTokenService.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestTokenService creates a token service with a fixed clock. A nil now
// uses time.Now.
func NewTestTokenService(secret string, now func() time.Time) TokenService {
	svc, err := newTokenService(secret, TokenLifetime, now)
	if err != nil {
		// ALLOW-PANIC
		panic(fmt.Sprintf("failed to create test token service: %v", err))
	}
	return svc
}
