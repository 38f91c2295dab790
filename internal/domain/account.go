package domain

import (
	"errors"
	"strings"
	"time"
)

// Account validation errors
var (
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")
)

// Account is a registered user of the API. Accounts own task items.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose the credential hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAccount builds an Account that has not been persisted yet. The ID is
// assigned by the store on insert.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if a.Username == "" {
		return NewValidationError("username", "cannot be empty", ErrEmptyUsername)
	}

	if a.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}

	if !validEmailFormat(a.Email) {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}

	if a.PasswordHash == "" {
		return NewValidationError("credential", "cannot be empty", ErrEmptyPasswordHash)
	}

	return nil
}

// validEmailFormat performs a shallow structural check: one "@" with a
// non-empty local part and a dotted domain. Requests are validated more
// strictly by the API layer.
func validEmailFormat(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}

// ValidateEmail checks a standalone email value, such as one supplied in an
// account update.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}
	if !validEmailFormat(strings.TrimSpace(email)) {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	return nil
}
