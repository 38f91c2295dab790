package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskStore implements store.TaskStore on the todos table.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewTaskStore creates a TaskStore over db. If logger is nil the default
// logger is used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.TaskItem, error) {
	var (
		t      domain.TaskItem
		due    sql.NullTime
		status string
	)
	if err := row.Scan(
		&t.ID, &t.AccountID, &t.Title, &t.Description, &due, &status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if due.Valid {
		d := time.Date(due.Time.Year(), due.Time.Month(), due.Time.Day(), 0, 0, 0, 0, time.UTC)
		t.DueDate = &d
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

func dueDateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return *d
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, item *domain.TaskItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	id, err := s.dialect.insertID(ctx, s.db,
		`INSERT INTO todos (user_id, title, description, due_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.AccountID, item.Title, item.Description, dueDateArg(item.DueDate),
		string(item.Status), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist",
				slog.Int64("account_id", item.AccountID),
				slog.String("error", err.Error()))
		} else {
			log.Error("failed to create task",
				slog.Int64("account_id", item.AccountID),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError("task", "create", MapError(err))
	}

	item.ID = id
	log.Info("task created", slog.Int64("task_id", id), slog.Int64("account_id", item.AccountID))
	return nil
}

// GetOwned implements store.TaskStore.GetOwned.
func (s *TaskStore) GetOwned(ctx context.Context, id, accountID int64) (*domain.TaskItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT ` + taskColumns + ` FROM todos WHERE id = ? AND user_id = ?`)

	item, err := scanTask(s.db.QueryRowContext(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no owned task matched",
				slog.Int64("task_id", id),
				slog.Int64("account_id", accountID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to load task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", MapError(err))
	}
	return item, nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.TaskItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := BuildTaskListQuery(s.dialect, filter)
	if err != nil {
		log.Debug("rejected task list filter", slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.Int64("account_id", filter.AccountID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close task rows", slog.String("error", cerr.Error()))
		}
	}()

	items := make([]*domain.TaskItem, 0)
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", MapError(err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("task rows iteration failed", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", MapError(err))
	}

	log.Debug("listed tasks",
		slog.Int64("account_id", filter.AccountID),
		slog.Int("count", len(items)))
	return items, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, item *domain.TaskItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return err
	}

	query := s.dialect.Rebind(`UPDATE todos SET title = ?, description = ?, due_date = ?, updated_at = ? WHERE id = ? AND user_id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		item.Title, item.Description, dueDateArg(item.DueDate), item.UpdatedAt,
		item.ID, item.AccountID,
	)
	if err != nil {
		log.Error("failed to update task", slog.Int64("task_id", item.ID), slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", MapError(err))
	}
	if err := CheckRowsAffected(res, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated", slog.Int64("task_id", item.ID))
	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus.
func (s *TaskStore) UpdateStatus(ctx context.Context, item *domain.TaskItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !item.Status.Valid() {
		return domain.ErrInvalidTaskStatus
	}

	query := s.dialect.Rebind(`UPDATE todos SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`)

	res, err := s.db.ExecContext(ctx, query, string(item.Status), item.UpdatedAt, item.ID, item.AccountID)
	if err != nil {
		log.Error("failed to update task status",
			slog.Int64("task_id", item.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update status", MapError(err))
	}
	if err := CheckRowsAffected(res, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task status updated", slog.Int64("task_id", item.ID), slog.String("status", string(item.Status)))
	return nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx, dialect: s.dialect, logger: s.logger}
}
