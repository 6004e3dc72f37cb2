package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/texdrill-api/internal/config"
	"github.com/phrazzld/texdrill-api/internal/domain/srs"
	"github.com/phrazzld/texdrill-api/internal/idempotency"
	"github.com/phrazzld/texdrill-api/internal/platform/postgres"
	"github.com/phrazzld/texdrill-api/internal/redact"
	"github.com/phrazzld/texdrill-api/internal/service"
	"github.com/phrazzld/texdrill-api/internal/service/auth"
	"github.com/phrazzld/texdrill-api/internal/service/review"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	lessonStore  store.LessonStore
	reviewStore  store.ReviewStore
	attemptStore store.AttemptStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	scheduler        srs.Service
	userService      service.UserService
	lessonService    service.LessonService
	reviewService    review.Service

	// Replay cache for practice submissions
	idempotencyCache idempotency.Cache
}

// newApplication wires stores and services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.lessonStore = postgres.NewPostgresLessonStore(db, logger)
	app.reviewStore = postgres.NewPostgresReviewStore(db, logger)
	app.attemptStore = postgres.NewPostgresAttemptStore(db, logger)

	app.scheduler = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		InitialEaseFactor: cfg.SRS.InitialEaseFactor,
		MinEaseFactor:     cfg.SRS.MinEaseFactor,
	}))

	app.userService = service.NewUserService(app.userStore, db, logger)
	app.lessonService = service.NewLessonService(app.lessonStore, app.attemptStore, logger)
	app.reviewService = review.NewService(
		app.reviewStore,
		app.attemptStore,
		app.lessonStore,
		app.scheduler,
		db,
		logger,
	)

	app.idempotencyCache, err = idempotency.New(ctx, cfg.Idempotency, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize idempotency cache: %w", err)
	}
	logger.Info("idempotency cache initialized",
		slog.String("backend", cfg.Idempotency.Backend),
		slog.Duration("ttl", cfg.Idempotency.TTL()))

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the cache and the database pool.
func (app *application) cleanup() {
	if app.idempotencyCache != nil {
		if err := app.idempotencyCache.Close(); err != nil {
			app.logger.Error("error closing idempotency cache", redact.ErrorAttr(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", redact.ErrorAttr(err))
		}
	}
	app.logger.Info("application shutdown completed")
}
