package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// PostgresAttemptStore implements store.AttemptStore.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// NewPostgresAttemptStore creates an attempt store.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// WithTx implements store.AttemptStore.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

// Create implements store.AttemptStore.
func (s *PostgresAttemptStore) Create(ctx context.Context, a *domain.PracticeAttempt) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO practice_attempts
			(id, user_id, exercise_id, user_answer, target_answer, is_correct, tip_type, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.ExerciseID, a.UserAnswer, a.TargetAnswer, a.IsCorrect, a.TipType, a.SubmittedAt)
	if err != nil {
		return store.NewStoreError("practice_attempt", "create", "failed to insert attempt", MapError(err))
	}
	return nil
}

// ProgressByExercise implements store.AttemptStore.
func (s *PostgresAttemptStore) ProgressByExercise(
	ctx context.Context,
	userID uuid.UUID,
	exerciseIDs []uuid.UUID,
) (map[uuid.UUID]domain.ExerciseProgress, error) {
	out := make(map[uuid.UUID]domain.ExerciseProgress, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(exerciseIDs))
	for i, id := range exerciseIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise_id,
			COUNT(*),
			MIN(submitted_at) FILTER (WHERE is_correct)
		FROM practice_attempts
		WHERE user_id = $1 AND exercise_id = ANY($2::uuid[])
		GROUP BY exercise_id`,
		userID, ids)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			p        domain.ExerciseProgress
			solvedAt sql.NullTime
		)
		if err := rows.Scan(&p.ExerciseID, &p.Attempts, &solvedAt); err != nil {
			return nil, MapError(err)
		}
		p.FirstSolvedAt = utcPtr(solvedAt)
		p.Solved = p.FirstSolvedAt != nil
		out[p.ExerciseID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// DeleteAllForUser implements store.AttemptStore.
func (s *PostgresAttemptStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM practice_attempts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, MapError(err)
	}
	return result.RowsAffected()
}

func utcPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}
