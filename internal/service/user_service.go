package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// UserService registers and looks up users.
type UserService interface {
	// CreateUser validates and stores a new user.
	// Returns store.ErrEmailExists when the email is taken.
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser returns ErrUserNotFound when the ID is unknown.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail returns ErrUserNotFound when the email is unknown.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userService struct {
	userStore store.UserStore
	db        *sql.DB
	now       func() time.Time
	logger    *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService.
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userStore: userStore,
		db:        db,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, s.now())
	if err != nil {
		log.Debug("rejected user registration", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
			return nil, err
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, NewServiceError("create user", "failed to save user", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, "get user", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.lookupError(ctx, "get user by email", err)
	}
	return user, nil
}

func (s *userService) lookupError(ctx context.Context, op string, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("user lookup failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError(op, "failed to retrieve user", err)
}
