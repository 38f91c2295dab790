package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"id", "user_id", "title", "description", "due_date", "status", "created_at", "updated_at"}

func TestTaskStoreCreate(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("postgres", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		item, err := domain.NewTaskItem(1, "Buy milk", "2 litres", &due)
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta(
			"INSERT INTO todos (user_id, title, description, due_date, status, created_at, updated_at)")).
			WithArgs(int64(1), "Buy milk", "2 litres", due, "open", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

		require.NoError(t, s.Create(ctx, item))
		assert.Equal(t, int64(10), item.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mysql without due date", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		item, err := domain.NewTaskItem(2, "Call mum", "", nil)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO todos")).
			WithArgs(int64(2), "Call mum", "", nil, "open", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(3, 1))

		require.NoError(t, s.Create(ctx, item))
		assert.Equal(t, int64(3), item.ID)
	})

	t.Run("missing owner", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		item, err := domain.NewTaskItem(404, "Orphan", "", nil)
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos")).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "todos_user_id_fkey"})

		assert.ErrorIs(t, s.Create(ctx, item), store.ErrInvalidEntity)
	})
}

func TestTaskStoreGetOwned(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("owned", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		mock.ExpectQuery(regexp.QuoteMeta(selectTasks+" WHERE id = $1 AND user_id = $2")).
			WithArgs(int64(10), int64(1)).
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow(int64(10), int64(1), "Buy milk", "", due, "done", now, now))

		item, err := s.GetOwned(ctx, 10, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.AccountID)
		assert.Equal(t, domain.TaskStatusDone, item.Status)
		require.NotNil(t, item.DueDate)
		assert.Equal(t, "2024-06-30", item.DueDate.Format(domain.DueDateLayout))
	})

	t.Run("foreign or missing look the same", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		mock.ExpectQuery(regexp.QuoteMeta(selectTasks+" WHERE id = ? AND user_id = ?")).
			WithArgs(int64(10), int64(2)).
			WillReturnRows(sqlmock.NewRows(taskCols))

		item, err := s.GetOwned(ctx, 10, 2)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	t.Run("maps rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		mock.ExpectQuery(regexp.QuoteMeta(
			selectTasks+" WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
			WithArgs(int64(1), 10, 0).
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow(int64(2), int64(1), "b", "", nil, "open", now, now).
				AddRow(int64(1), int64(1), "a", "x", nil, "done", now, now))

		items, err := s.List(ctx, store.TaskFilter{AccountID: 1})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(2), items[0].ID)
		assert.Nil(t, items[0].DueDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty page is not an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE user_id = ? AND status = ?")).
			WithArgs(int64(1), "done", 10, 0).
			WillReturnRows(sqlmock.NewRows(taskCols))

		done := domain.TaskStatusDone
		items, err := s.List(ctx, store.TaskFilter{AccountID: 1, Status: &done})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("invalid filter never queries", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		_, err := s.List(ctx, store.TaskFilter{AccountID: 1, SortBy: "1; DROP TABLE users"})
		assert.ErrorIs(t, err, store.ErrInvalidSortField)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))

		_, err := s.List(ctx, store.TaskFilter{AccountID: 1})
		var se *store.StoreError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "task", se.Entity)
		assert.Equal(t, "list", se.Operation)
	})
}

func TestTaskStoreUpdates(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	item := &domain.TaskItem{
		ID:        10,
		AccountID: 1,
		Title:     "Buy oat milk",
		Status:    domain.TaskStatusDone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("update filters by owner", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, Postgres, nil)

		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE todos SET title = $1, description = $2, due_date = $3, updated_at = $4 WHERE id = $5 AND user_id = $6")).
			WithArgs("Buy oat milk", "", nil, now, int64(10), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(ctx, item))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update of foreign item affects nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE todos SET title = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, item), store.ErrTaskNotFound)
	})

	t.Run("status update", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE todos SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?")).
			WithArgs("done", now, int64(10), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateStatus(ctx, item))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewTaskStore(db, MySQL, nil)

		bad := *item
		bad.Status = "archived"
		assert.ErrorIs(t, s.UpdateStatus(ctx, &bad), domain.ErrInvalidTaskStatus)
	})
}
