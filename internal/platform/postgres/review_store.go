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

// PostgresReviewStore implements store.ReviewStore on the review_records
// table.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// NewPostgresReviewStore creates a review store on a connection or
// transaction.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// WithTx implements store.ReviewStore.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}

// Foreign keys of review_records, named by PostgreSQL's default scheme.
const (
	reviewUserFK     = "review_records_user_id_fkey"
	reviewExerciseFK = "review_records_exercise_id_fkey"
)

const reviewColumns = `user_id, exercise_id, next_review_at, easiness_factor,
	repetitions, last_interval_days, created_at, updated_at`

// Upsert implements store.ReviewStore.
func (s *PostgresReviewStore) Upsert(
	ctx context.Context,
	initial *domain.ReviewRecord,
	fn store.ReviewUpdateFn,
) (*domain.ReviewRecord, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: nil initial record", store.ErrInvalidEntity)
	}
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if db, ok := s.db.(*sql.DB); ok {
		var out *domain.ReviewRecord
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var err error
			out, err = s.WithTx(tx).Upsert(ctx, initial, fn)
			return err
		})
		return out, err
	}

	// The insert is a no-op for an existing key; either way the row exists
	// and the lock below serializes competing writers.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_records (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, exercise_id) DO NOTHING`,
		initial.UserID, initial.ExerciseID, initial.NextReviewAt, initial.EasinessFactor,
		initial.Repetitions, initial.LastIntervalDays, initial.CreatedAt, initial.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			switch ConstraintName(err) {
			case reviewExerciseFK:
				return nil, fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
			case reviewUserFK:
				return nil, fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
			}
		}
		return nil, store.NewStoreError("review_record", "upsert", "failed to insert default record", MapError(err))
	}

	current, err := scanReviewRecord(s.db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_records
		WHERE user_id = $1 AND exercise_id = $2
		FOR UPDATE`,
		initial.UserID, initial.ExerciseID))
	if err != nil {
		return nil, store.NewStoreError("review_record", "upsert", "failed to lock record", err)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, fmt.Errorf("%w: update produced no record", store.ErrInvalidEntity)
	}
	if next.UserID != current.UserID || next.ExerciseID != current.ExerciseID {
		return nil, fmt.Errorf("%w: update changed the record key", store.ErrInvalidEntity)
	}
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE review_records
		SET next_review_at = $3, easiness_factor = $4, repetitions = $5,
			last_interval_days = $6, updated_at = $7
		WHERE user_id = $1 AND exercise_id = $2`,
		next.UserID, next.ExerciseID, next.NextReviewAt, next.EasinessFactor,
		next.Repetitions, next.LastIntervalDays, next.UpdatedAt)
	if err != nil {
		return nil, store.NewStoreError("review_record", "upsert", "failed to update record", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrReviewRecordNotFound); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "review record updated",
		slog.String("user_id", next.UserID.String()),
		slog.String("exercise_id", next.ExerciseID.String()),
		slog.Int("repetitions", next.Repetitions),
		slog.Time("next_review_at", next.NextReviewAt))
	return next, nil
}

// Get implements store.ReviewStore.
func (s *PostgresReviewStore) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ReviewRecord, error) {
	return scanReviewRecord(s.db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_records
		WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID))
}

// ListDue implements store.ReviewStore.
func (s *PostgresReviewStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ReviewRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM review_records
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, exercise_id ASC`,
		userID, asOf.UTC())
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := []*domain.ReviewRecord{}
	for rows.Next() {
		r, err := scanReviewRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

// CountStats implements store.ReviewStore.
func (s *PostgresReviewStore) CountStats(
	ctx context.Context,
	userID uuid.UUID,
	todayEnd, tomorrowEnd time.Time,
) (domain.ReviewStats, error) {
	var stats domain.ReviewStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE next_review_at <= $2),
			COUNT(*) FILTER (WHERE next_review_at > $2 AND next_review_at <= $3)
		FROM review_records
		WHERE user_id = $1`,
		userID, todayEnd.UTC(), tomorrowEnd.UTC()).Scan(&stats.Total, &stats.DueToday, &stats.DueTomorrow)
	if err != nil {
		return domain.ReviewStats{}, MapError(err)
	}
	return stats, nil
}

// DeleteAllForUser implements store.ReviewStore.
func (s *PostgresReviewStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM review_records WHERE user_id = $1`, userID)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewRecord(row rowScanner) (*domain.ReviewRecord, error) {
	var r domain.ReviewRecord
	err := row.Scan(
		&r.UserID, &r.ExerciseID, &r.NextReviewAt, &r.EasinessFactor,
		&r.Repetitions, &r.LastIntervalDays, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, entityError(err, store.ErrReviewRecordNotFound, nil)
	}
	r.NextReviewAt = r.NextReviewAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}
