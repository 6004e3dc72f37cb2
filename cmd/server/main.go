// Package main runs the texdrill API server: LaTeX practice lessons graded
// by an answer checker, with spaced-repetition review scheduling.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/texdrill-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command and exit: up, down, reset, status, version or create")
	migrationName := flag.String("name", "", "name of the migration for -migrate=create")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd, *migrationName); err != nil {
		log.Printf("texdrill-api: %s", redact.Error(err))
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or
// serves HTTP until ctx is canceled.
func run(ctx context.Context, migrateCmd, migrationName string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return handleMigrations(ctx, db, logger, migrateCmd, migrationName)
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	logger.Info("texdrill API starting", slog.Int("port", cfg.Server.Port))
	return app.Run(ctx)
}
