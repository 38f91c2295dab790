// Package main runs the todo API server. With -migrate it applies or
// inspects database migrations instead of serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("todo-api exited with error", "error", err)
		os.Exit(1)
	}
}

// cliOptions are the command line flags.
type cliOptions struct {
	configPath string
	migrate    string
}

func parseFlags(args []string) (cliOptions, []string, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("todo-api", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a config.yaml file")
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, up-by-one, up-to, down, down-to, redo, reset, status, version) and exit")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func run(args []string) error {
	opts, rest, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDB(db, log)
		return handleMigrations(ctx, db, dialect, log, opts.migrate, rest...)
	}

	app, err := newApplication(cfg, log, db, dialect)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
