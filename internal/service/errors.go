package service

import (
	"errors"
	"fmt"
)

// Service errors. The API layer maps these to HTTP status codes.
var (
	// ErrAuthenticationFailed is returned for an unknown email and for a
	// wrong credential alike. Maps to 401.
	ErrAuthenticationFailed = errors.New("invalid email or credential")

	// ErrForbidden indicates the identity may not act on the resource.
	// Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotOwnedOrMissing indicates that no task item with the id is owned
	// by the acting identity. Missing and foreign items look the same.
	ErrNotOwnedOrMissing = fmt.Errorf("%w: task item not found or not owned", ErrForbidden)
)
