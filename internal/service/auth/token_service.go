package auth

import (
	"context"
	"time"
)

// TokenLifetime is how long an issued identity token stays valid.
const TokenLifetime = time.Hour

// MinSecretLength is the minimum signing secret length in bytes.
const MinSecretLength = 32

// TokenService issues and verifies stateless identity tokens.
type TokenService interface {
	// GenerateToken returns a signed token for the account, valid for
	// TokenLifetime from now.
	GenerateToken(ctx context.Context, accountID int64, email string) (string, error)

	// IssueToken is GenerateToken that also reports the expiry instant.
	IssueToken(ctx context.Context, accountID int64, email string) (string, time.Time, error)

	// ValidateToken verifies the signature and expiry of token and returns
	// its claims. Failures are ErrInvalidSignature, ErrExpiredToken or
	// ErrMalformedToken, all of which wrap ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// Claims are the verified contents of an identity token.
type Claims struct {
	AccountID int64     `json:"uid"`
	Email     string    `json:"email"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti,omitempty"`
}
