package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/texdrill-api/internal/platform/postgres"
)

var migrationCommands = map[string]bool{
	postgres.MigrateUp:      true,
	postgres.MigrateDown:    true,
	postgres.MigrateReset:   true,
	postgres.MigrateStatus:  true,
	postgres.MigrateVersion: true,
	postgres.MigrateCreate:  true,
}

// handleMigrations runs a single goose command against db.
func handleMigrations(
	ctx context.Context,
	db *sql.DB,
	logger *slog.Logger,
	migrateCmd string,
	migrationName string,
) error {
	if !migrationCommands[migrateCmd] {
		return fmt.Errorf("unknown migration command %q", migrateCmd)
	}

	var args []string
	if migrateCmd == postgres.MigrateCreate {
		if migrationName == "" {
			return fmt.Errorf("-name is required for -migrate=create")
		}
		args = append(args, migrationName)
	}

	logger.Info("executing migrations", slog.String("command", migrateCmd))
	if err := postgres.Migrate(ctx, db, logger, migrateCmd, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", migrateCmd, err)
	}
	logger.Info("migrations finished", slog.String("command", migrateCmd))
	return nil
}
