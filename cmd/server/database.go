package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/texdrill-api/internal/config"
	"github.com/phrazzld/texdrill-api/internal/platform/postgres"
)

// setupAppDatabase opens the connection pool and verifies it.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns))
	return db, nil
}
