package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/phrazzld/todo-api/internal/domain"
)

// Listing defaults and bounds.
const (
	DefaultTaskPage  = 1
	DefaultTaskLimit = 10
	MaxTaskLimit     = 100
)

// TaskSortField is a column task items may be ordered by.
type TaskSortField string

// Allow-listed sort fields. These are the only values ever interpolated into
// a listing query.
const (
	SortByID          TaskSortField = "id"
	SortByTitle       TaskSortField = "title"
	SortByDescription TaskSortField = "description"
	SortByDueDate     TaskSortField = "due_date"
	SortByStatus      TaskSortField = "status"
	SortByCreatedAt   TaskSortField = "created_at"
)

// SortOrder is the direction of a listing.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

var taskSortFields = map[TaskSortField]struct{}{
	SortByID:          {},
	SortByTitle:       {},
	SortByDescription: {},
	SortByDueDate:     {},
	SortByStatus:      {},
	SortByCreatedAt:   {},
}

// Valid reports whether f is on the allow-list.
func (f TaskSortField) Valid() bool {
	_, ok := taskSortFields[f]
	return ok
}

// Valid reports whether o is ASC or DESC.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// ParseSortField maps raw input onto the allow-list. Empty input yields the
// default created_at ordering.
func ParseSortField(raw string) (TaskSortField, error) {
	if raw == "" {
		return SortByCreatedAt, nil
	}
	f := TaskSortField(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, raw)
	}
	return f, nil
}

// ParseSortOrder accepts asc/desc in any case. Empty input yields DESC.
func ParseSortOrder(raw string) (SortOrder, error) {
	if raw == "" {
		return SortDesc, nil
	}
	o := SortOrder(strings.ToUpper(strings.TrimSpace(raw)))
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
	}
	return o, nil
}

// TaskFilter describes a paginated, filtered listing of one account's task
// items. AccountID is mandatory; every other field is optional.
type TaskFilter struct {
	AccountID int64
	Page      int
	Limit     int
	SortBy    TaskSortField
	SortOrder SortOrder
	Status    *domain.TaskStatus
	Search    string
}

// Normalize fills defaults, caps the limit and validates every field. It
// returns a copy so the caller's filter is not modified.
func (f TaskFilter) Normalize() (TaskFilter, error) {
	if f.AccountID <= 0 {
		return f, fmt.Errorf("%w: account id is required", ErrInvalidFilter)
	}

	if f.Page == 0 {
		f.Page = DefaultTaskPage
	}
	if f.Page < 1 {
		return f, fmt.Errorf("%w: page must be at least 1", ErrInvalidPagination)
	}

	if f.Limit == 0 {
		f.Limit = DefaultTaskLimit
	}
	if f.Limit < 1 {
		return f, fmt.Errorf("%w: limit must be positive", ErrInvalidPagination)
	}
	if f.Limit > MaxTaskLimit {
		f.Limit = MaxTaskLimit
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return f, fmt.Errorf("%w: page is too large", ErrInvalidPagination)
	}

	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if !f.SortBy.Valid() {
		return f, fmt.Errorf("%w: %q", ErrInvalidSortField, string(f.SortBy))
	}

	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if !f.SortOrder.Valid() {
		return f, fmt.Errorf("%w: %q", ErrInvalidSortOrder, string(f.SortOrder))
	}

	if f.Status != nil && !f.Status.Valid() {
		return f, domain.ErrInvalidTaskStatus
	}

	return f, nil
}

// Offset is the number of rows skipped before the requested page.
func (f TaskFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// TaskStore defines the interface for task item persistence. Every method
// that touches an existing item is scoped by owner as well as id.
type TaskStore interface {
	// Create inserts the item and sets item.ID to the assigned id.
	Create(ctx context.Context, item *domain.TaskItem) error

	// GetOwned retrieves the item with id owned by accountID.
	// Returns ErrTaskNotFound when no such row exists, whether the item is
	// missing or owned by someone else.
	GetOwned(ctx context.Context, id, accountID int64) (*domain.TaskItem, error)

	// List returns the page of items described by filter. An empty page is
	// not an error.
	List(ctx context.Context, filter TaskFilter) ([]*domain.TaskItem, error)

	// Update writes title, description, due date and updated_at of item,
	// filtered by item.ID and item.AccountID.
	// Returns ErrTaskNotFound when no row was affected.
	Update(ctx context.Context, item *domain.TaskItem) error

	// UpdateStatus writes status and updated_at of item, filtered by
	// item.ID and item.AccountID.
	// Returns ErrTaskNotFound when no row was affected.
	UpdateStatus(ctx context.Context, item *domain.TaskItem) error

	// WithTx returns a TaskStore bound to the transaction.
	WithTx(tx *sql.Tx) TaskStore
}
