package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskInput carries the editable fields of a task item.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// TaskService provides task item operations scoped to an identity.
type TaskService interface {
	// Create adds a task item owned by identity.
	Create(ctx context.Context, identity domain.Identity, input TaskInput) (*domain.TaskItem, error)

	// Get returns the task item if identity owns it.
	Get(ctx context.Context, identity domain.Identity, taskID int64) (*domain.TaskItem, error)

	// List returns a page of identity's task items. filter.AccountID is
	// always replaced with the identity's account.
	List(ctx context.Context, identity domain.Identity, filter store.TaskFilter) ([]*domain.TaskItem, error)

	// Update replaces title, description and due date of an owned item.
	Update(ctx context.Context, identity domain.Identity, taskID int64, input TaskInput) (*domain.TaskItem, error)

	// UpdateStatus sets the status of an owned item.
	UpdateStatus(
		ctx context.Context,
		identity domain.Identity,
		taskID int64,
		status domain.TaskStatus,
	) (*domain.TaskItem, error)
}

type taskService struct {
	tasks  store.TaskStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewTaskService creates a TaskService. Writes run inside transactions
// started by tx.
func NewTaskService(tasks store.TaskStore, tx store.TxRunner, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", nil)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		tasks:  tasks,
		tx:     tx,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.
func (s *taskService) Create(ctx context.Context, identity domain.Identity, input TaskInput) (*domain.TaskItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewTaskItem(identity.AccountID, input.Title, input.Description, input.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, item); err != nil {
		log.Error("failed to create task", "error", err, "account_id", identity.AccountID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return item, nil
}

// Get implements TaskService.
func (s *taskService) Get(ctx context.Context, identity domain.Identity, taskID int64) (*domain.TaskItem, error) {
	return NewOwnershipGuard(s.tasks, s.logger).Check(ctx, identity, taskID)
}

// List implements TaskService.
func (s *taskService) List(
	ctx context.Context,
	identity domain.Identity,
	filter store.TaskFilter,
) ([]*domain.TaskItem, error) {
	filter.AccountID = identity.AccountID

	items, err := s.tasks.List(ctx, filter)
	if err != nil {
		if errors.Is(err, store.ErrInvalidFilter) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			"error", err,
			"account_id", identity.AccountID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return items, nil
}

// Update implements TaskService.
func (s *taskService) Update(
	ctx context.Context,
	identity domain.Identity,
	taskID int64,
	input TaskInput,
) (*domain.TaskItem, error) {
	return s.mutate(ctx, identity, taskID, func(ctx context.Context, tasks store.TaskStore, item *domain.TaskItem) error {
		if err := item.Revise(input.Title, input.Description, input.DueDate); err != nil {
			return err
		}
		return tasks.Update(ctx, item)
	})
}

// UpdateStatus implements TaskService.
func (s *taskService) UpdateStatus(
	ctx context.Context,
	identity domain.Identity,
	taskID int64,
	status domain.TaskStatus,
) (*domain.TaskItem, error) {
	return s.mutate(ctx, identity, taskID, func(ctx context.Context, tasks store.TaskStore, item *domain.TaskItem) error {
		if err := item.SetStatus(status); err != nil {
			return err
		}
		return tasks.UpdateStatus(ctx, item)
	})
}

type taskMutation func(ctx context.Context, tasks store.TaskStore, item *domain.TaskItem) error

// mutate runs the ownership check and the write in one transaction.
func (s *taskService) mutate(
	ctx context.Context,
	identity domain.Identity,
	taskID int64,
	apply taskMutation,
) (*domain.TaskItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.TaskItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		item, err := NewOwnershipGuard(tasks, s.logger).Check(ctx, identity, taskID)
		if err != nil {
			return err
		}

		if err := apply(ctx, tasks, item); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return ErrNotOwnedOrMissing
			}
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !errors.Is(err, domain.ErrValidation) {
			log.Error("task mutation failed", "error", err, "task_id", taskID)
		}
		return nil, err
	}

	log.Info("task updated", "task_id", taskID, "account_id", identity.AccountID)
	return updated, nil
}
