package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// AccountStore implements store.AccountStore on the users table.
type AccountStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewAccountStore creates an AccountStore over db. If logger is nil the
// default logger is used.
func NewAccountStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

const accountColumns = `id, username, email, password_hash, created_at, updated_at`

// Create implements store.AccountStore.Create.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create", slog.String("error", err.Error()))
		return err
	}

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}

	id, err := s.dialect.insertID(ctx, s.db,
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		account.Username, account.Email, account.PasswordHash, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		mapped := mapAccountUniqueViolation(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("duplicate account rejected", slog.String("error", mapped.Error()))
		} else {
			log.Error("failed to create account", slog.String("error", err.Error()))
		}
		return store.NewStoreError("account", "create", mapped)
	}

	account.ID = id
	log.Info("account created", slog.Int64("account_id", id))
	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return s.getOne(ctx, "id", id)
}

// GetByEmail implements store.AccountStore.GetByEmail.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx, "email", strings.TrimSpace(email))
}

// getOne loads a single account. column is always a literal from this file.
func (s *AccountStore) getOne(ctx context.Context, column string, value any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT ` + accountColumns + ` FROM users WHERE ` + column + ` = ?`)

	var a domain.Account
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("lookup", column))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to load account", slog.String("lookup", column), slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "get by "+column, MapError(err))
	}
	return &a, nil
}

// Update implements store.AccountStore.Update.
func (s *AccountStore) Update(ctx context.Context, id int64, update store.AccountUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.Empty() {
		return domain.NewValidationError("body", "no fields to update", nil)
	}

	var (
		sets []string
		args []any
	)
	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := s.dialect.Rebind(`UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		mapped := mapAccountUniqueViolation(err)
		log.Warn("failed to update account",
			slog.Int64("account_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("account", "update", mapped)
	}

	if err := CheckRowsAffected(res, store.ErrAccountNotFound); err != nil {
		log.Debug("account update matched no rows", slog.Int64("account_id", id))
		return err
	}

	log.Info("account updated", slog.Int64("account_id", id), slog.Int("fields", len(sets)-1))
	return nil
}

// WithTx implements store.AccountStore.WithTx.
func (s *AccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &AccountStore{db: tx, dialect: s.dialect, logger: s.logger}
}
