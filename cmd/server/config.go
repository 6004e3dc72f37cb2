package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/texdrill-api/internal/config"
)

// loadAppConfig loads the configuration from defaults, config.yaml, .env and
// the environment.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("idempotency_backend", cfg.Idempotency.Backend))

	return cfg, nil
}
