package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/domain/latex"
	"github.com/phrazzld/texdrill-api/internal/domain/srs"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/service"
	"github.com/phrazzld/texdrill-api/internal/store"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	reviews   store.ReviewStore
	attempts  store.AttemptStore
	lessons   store.LessonStore
	scheduler srs.Service
	db        *sql.DB
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// NewService creates the review Service.
func NewService(
	reviews store.ReviewStore,
	attempts store.AttemptStore,
	lessons store.LessonStore,
	scheduler srs.Service,
	db *sql.DB,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if attempts == nil {
		panic("attempts cannot be nil")
	}
	if lessons == nil {
		panic("lessons cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		reviews:   reviews,
		attempts:  attempts,
		lessons:   lessons,
		scheduler: scheduler,
		db:        db,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) SubmitAttempt(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
) (*AttemptResult, error) {
	return s.submit(ctx, userID, exerciseID, userAnswer, targetAnswer, nil)
}

func (s *serviceImpl) SubmitAttemptWithQuality(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
	quality domain.Quality,
) (*AttemptResult, error) {
	return s.submit(ctx, userID, exerciseID, userAnswer, targetAnswer, &quality)
}

func (s *serviceImpl) SubmitPractice(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer string,
	quality *domain.Quality,
) (*AttemptResult, error) {
	card, err := s.practiceCard(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	result, err := s.submit(ctx, userID, exerciseID, userAnswer, card.TargetFormula, quality)
	if err != nil {
		return nil, err
	}

	result.TargetAnswer = card.TargetFormula
	if !result.IsCorrect {
		if hint, _, ok := card.Hint(0); ok {
			result.Hint = hint
		}
	}
	return result, nil
}

// submit grades the answer, then upserts the schedule and appends the
// attempt in one transaction.
func (s *serviceImpl) submit(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
	quality *domain.Quality,
) (*AttemptResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise_id", exerciseID.String()))

	if userID == uuid.Nil || exerciseID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and exercise IDs are required", domain.ErrInvalidID)
	}

	eval := latex.Evaluate(userAnswer, targetAnswer)
	q := domain.DefaultQuality(eval.IsCorrect)
	if quality != nil {
		q = *quality
	}

	now := s.now().UTC()
	initial, err := s.scheduler.NewRecord(userID, exerciseID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create default record: %w", err)
	}

	tipType := ""
	if eval.Tip != nil {
		tipType = string(eval.Tip.Type)
	}
	attempt, err := domain.NewPracticeAttempt(userID, exerciseID, userAnswer, targetAnswer, eval.IsCorrect, tipType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	var record *domain.ReviewRecord
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		updated, err := s.reviews.WithTx(tx).Upsert(ctx, initial,
			func(current *domain.ReviewRecord) (*domain.ReviewRecord, error) {
				return s.scheduler.UpdateSchedule(current, eval.IsCorrect, q, now)
			})
		if err != nil {
			return err
		}
		record = updated

		return s.attempts.WithTx(tx).Create(ctx, attempt)
	})
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Debug("attempt for unknown exercise")
			return nil, fmt.Errorf("%w: %w", service.ErrExerciseNotFound, err)
		}
		log.Error("failed to record attempt", slog.String("error", err.Error()))
		return nil, service.NewServiceError("submit attempt", "failed to record attempt", err)
	}

	log.Debug("attempt recorded",
		slog.Bool("is_correct", eval.IsCorrect),
		slog.Int("quality", int(q)),
		slog.Int("repetitions", record.Repetitions),
		slog.Float64("easiness_factor", record.EasinessFactor),
		slog.Time("next_review_at", record.NextReviewAt))

	return &AttemptResult{
		IsCorrect: eval.IsCorrect,
		Tip:       eval.Tip,
		Diagnosis: eval.Diagnosis,
		Record:    record,
	}, nil
}

func (s *serviceImpl) RequestHint(ctx context.Context, exerciseID uuid.UUID, level int) (*HintResult, error) {
	card, err := s.practiceCard(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	hint, hasMore, ok := card.Hint(level)
	if !ok {
		return nil, fmt.Errorf("%w: level %d of %d", service.ErrHintOutOfRange, level, len(card.Hints))
	}
	return &HintResult{Hint: hint, HintLevel: level, HasMoreHints: hasMore}, nil
}

func (s *serviceImpl) Check(userAnswer, targetAnswer string) latex.Evaluation {
	return latex.Evaluate(userAnswer, targetAnswer)
}

func (s *serviceImpl) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf *time.Time,
) ([]*domain.ReviewRecord, error) {
	at := s.now().UTC()
	if asOf != nil {
		at = asOf.UTC()
	}

	records, err := s.reviews.ListDue(ctx, userID, at)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due records",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, service.NewServiceError("list due", "failed to list due records", err)
	}
	return records, nil
}

func (s *serviceImpl) Stats(ctx context.Context, userID uuid.UUID) (domain.ReviewStats, error) {
	window := srs.NewDayWindow(s.now())
	stats, err := s.reviews.CountStats(ctx, userID, window.TodayEnd, window.TomorrowEnd)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count review stats",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return domain.ReviewStats{}, service.NewServiceError("stats", "failed to count records", err)
	}
	return stats, nil
}

func (s *serviceImpl) ResetUserData(ctx context.Context, userID uuid.UUID) (*ResetResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var res ResetResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if res.ReviewRecords, err = s.reviews.WithTx(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete review records: %w", err)
		}
		if res.Attempts, err = s.attempts.WithTx(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete attempts: %w", err)
		}
		if res.Completions, err = s.lessons.WithTx(tx).DeleteCompletionsForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete lesson completions: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to reset user data",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, service.NewServiceError("reset user data", "failed to delete user data", err)
	}

	log.Info("user data reset",
		slog.String("user_id", userID.String()),
		slog.Int64("review_records", res.ReviewRecords),
		slog.Int64("attempts", res.Attempts),
		slog.Int64("completions", res.Completions))
	return &res, nil
}

func (s *serviceImpl) practiceCard(ctx context.Context, exerciseID uuid.UUID) (*domain.PracticeCard, error) {
	card, err := s.lessons.GetCard(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", service.ErrExerciseNotFound, err)
		}
		return nil, service.NewServiceError("get exercise", "failed to load card", err)
	}
	practice, ok := card.(*domain.PracticeCard)
	if !ok {
		return nil, service.ErrNotPracticeCard
	}
	return practice, nil
}
