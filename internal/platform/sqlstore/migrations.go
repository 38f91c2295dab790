package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationFiles embed.FS

// MigrationsFS returns the migration files for d.
func MigrationsFS(d Dialect) (fs.FS, error) {
	sub, err := fs.Sub(migrationFiles, "migrations/"+d.String())
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %s: %w", d, err)
	}
	return sub, nil
}

// RunMigrations runs a goose command (up, down, status, version, ...)
// against db using the embedded migrations for d. goose keeps its settings
// in package state, so calls must not run concurrently.
func RunMigrations(ctx context.Context, db *sql.DB, d Dialect, command string, log goose.Logger, args ...string) error {
	fsys, err := MigrationsFS(d)
	if err != nil {
		return err
	}

	if log != nil {
		goose.SetLogger(log)
	}
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}
	return nil
}
