package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
)

// AttemptStore is an append-only log of practice submissions.
type AttemptStore interface {
	// Create appends an attempt.
	Create(ctx context.Context, attempt *domain.PracticeAttempt) error

	// ProgressByExercise aggregates the user's attempts on the given
	// exercises. Exercises without attempts are absent from the map.
	ProgressByExercise(ctx context.Context, userID uuid.UUID, exerciseIDs []uuid.UUID) (map[uuid.UUID]domain.ExerciseProgress, error)

	// DeleteAllForUser removes every attempt of the user.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns an AttemptStore bound to tx.
	WithTx(tx *sql.Tx) AttemptStore
}
