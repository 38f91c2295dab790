package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// OwnershipGuard confirms that an identity owns a task item before any
// write to it.
type OwnershipGuard struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewOwnershipGuard creates a guard reading through tasks.
func NewOwnershipGuard(tasks store.TaskStore, logger *slog.Logger) *OwnershipGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnershipGuard{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "ownership_guard")),
	}
}

// Check returns the task item when identity owns taskID. It returns
// ErrNotOwnedOrMissing when the item is missing or owned by another account.
func (g *OwnershipGuard) Check(ctx context.Context, identity domain.Identity, taskID int64) (*domain.TaskItem, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if identity.AccountID <= 0 {
		return nil, ErrNotOwnedOrMissing
	}

	item, err := g.tasks.GetOwned(ctx, taskID, identity.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Warn("ownership check rejected",
				"task_id", taskID,
				"account_id", identity.AccountID)
			return nil, ErrNotOwnedOrMissing
		}
		log.Error("ownership check failed", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to check task ownership: %w", err)
	}

	if !identity.Owns(item) {
		log.Error("store returned a task not owned by the identity",
			"task_id", taskID,
			"account_id", identity.AccountID)
		return nil, ErrNotOwnedOrMissing
	}

	return item, nil
}
