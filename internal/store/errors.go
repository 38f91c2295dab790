package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint (e.g., an account with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity is rejected by the store,
	// for example by a foreign key or check constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidFilter is returned when list parameters cannot be turned into a
	// safe query. Check the wrapped error for the offending parameter.
	ErrInvalidFilter = errors.New("invalid list filter")

	// Entity-specific "not found" errors

	// ErrAccountNotFound indicates that the requested account does not exist.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrTaskNotFound indicates that no task item matched the id and owner.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates that an account already uses the username.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrEmailExists indicates that an account already uses the email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// List filter errors

	// ErrInvalidSortField is returned when sortBy is not an allow-listed column.
	ErrInvalidSortField = fmt.Errorf("%w: sort field", ErrInvalidFilter)

	// ErrInvalidSortOrder is returned when sortOrder is neither ASC nor DESC.
	ErrInvalidSortOrder = fmt.Errorf("%w: sort order", ErrInvalidFilter)

	// ErrInvalidPagination is returned for non-positive page or limit values.
	ErrInvalidPagination = fmt.Errorf("%w: pagination", ErrInvalidFilter)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which entity and operation produced a store failure.
// It unwraps to the underlying error, so sentinel checks still apply.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return e.Entity + " " + e.Operation + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError annotates err with entity and operation. A nil err stays nil.
func NewStoreError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
