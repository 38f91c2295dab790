package auth

import (
	"errors"
	"fmt"
)

// Token errors. Every validation failure wraps ErrInvalidToken.
var (
	// ErrInvalidToken is the family of all token validation failures.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrInvalidSignature indicates the signature did not verify against the
	// current secret, or the token used an unexpected algorithm.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrExpiredToken indicates the token's expiry is not after now.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrMalformedToken indicates the token could not be parsed.
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret is returned when the signing secret is too short.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
