package domain

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus is the completion state of a task item.
type TaskStatus string

// The closed set of task statuses.
const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

// Task item validation errors
var (
	ErrEmptyTaskOwner = errors.New("task owner cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
)

// DueDateLayout is the wire and storage format for due dates.
const DueDateLayout = "2006-01-02"

// TaskItem is a unit of work owned by a single account.
type TaskItem struct {
	ID          int64      `json:"id"`
	AccountID   int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskItem creates an open task item owned by accountID.
func NewTaskItem(accountID int64, title, description string, dueDate *time.Time) (*TaskItem, error) {
	now := time.Now().UTC()
	item := &TaskItem{
		AccountID:   accountID,
		Title:       strings.TrimSpace(title),
		Description: description,
		DueDate:     truncateDate(dueDate),
		Status:      TaskStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the TaskItem has valid data.
func (t *TaskItem) Validate() error {
	if t.AccountID <= 0 {
		return NewValidationError("user_id", "cannot be empty", ErrEmptyTaskOwner)
	}

	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Revise replaces the editable fields and bumps UpdatedAt. The owner and the
// status are left untouched.
func (t *TaskItem) Revise(title, description string, dueDate *time.Time) error {
	revised := *t
	revised.Title = strings.TrimSpace(title)
	revised.Description = description
	revised.DueDate = truncateDate(dueDate)

	if err := revised.Validate(); err != nil {
		return err
	}

	revised.UpdatedAt = time.Now().UTC()
	*t = revised
	return nil
}

// SetStatus moves the item to status and bumps UpdatedAt.
func (t *TaskItem) SetStatus(status TaskStatus) error {
	if !status.Valid() {
		return ErrInvalidTaskStatus
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

// ParseDueDate parses a YYYY-MM-DD date. An empty string yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	d, err := time.Parse(DueDateLayout, raw)
	if err != nil {
		return nil, NewValidationError("due_date", "must be formatted as YYYY-MM-DD", ErrValidation)
	}
	return &d, nil
}

// truncateDate drops the time-of-day component so due dates compare as
// calendar days.
func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}
