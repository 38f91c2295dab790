package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/domain"
)

// AccountUpdate carries the subset of account fields to change. Nil fields
// are left untouched.
type AccountUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.PasswordHash == nil
}

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create inserts the account and sets account.ID to the assigned id.
	// Returns ErrUsernameExists or ErrEmailExists on uniqueness violations.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by id.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// GetByEmail retrieves an account by email.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Update applies the non-nil fields of update to the account.
	// Returns ErrAccountNotFound when no row was affected.
	Update(ctx context.Context, id int64, update AccountUpdate) error

	// WithTx returns an AccountStore bound to the transaction.
	WithTx(tx *sql.Tx) AccountStore
}
