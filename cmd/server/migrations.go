package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/todo-api/internal/platform/sqlstore"
)

// migrationCommands are the goose commands accepted by -migrate.
var migrationCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"up-to":     true,
	"down":      true,
	"down-to":   true,
	"redo":      true,
	"reset":     true,
	"status":    true,
	"version":   true,
}

// slogGooseLogger adapts goose's Printf/Fatalf logger to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level. It does not exit; goose returns the error to
// the caller as well.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// handleMigrations runs a single goose command against db.
func handleMigrations(
	ctx context.Context,
	db *sql.DB,
	dialect sqlstore.Dialect,
	log *slog.Logger,
	command string,
	args ...string,
) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	migrationLog := log.With(slog.String("component", "migrations"), slog.String("command", command))
	migrationLog.Info("running migrations", "dialect", dialect.String())

	if err := sqlstore.RunMigrations(ctx, db, dialect, command, &slogGooseLogger{logger: migrationLog}, args...); err != nil {
		return err
	}

	migrationLog.Info("migrations finished")
	return nil
}
