package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
)

// ReviewUpdateFn computes the next state of a review record from the
// current one. It must not mutate current.
type ReviewUpdateFn func(current *domain.ReviewRecord) (*domain.ReviewRecord, error)

// ReviewStore persists one scheduling record per (user, exercise).
type ReviewStore interface {
	// Upsert applies fn to the record keyed by initial's UserID and
	// ExerciseID and stores the result. When no record exists, initial is
	// inserted first and passed to fn. The read, fn and write happen under
	// a row lock, so concurrent upserts of the same key serialize and none
	// is lost. An error from fn aborts without writing.
	//
	// If the store is not bound to a transaction, Upsert runs in its own.
	Upsert(ctx context.Context, initial *domain.ReviewRecord, fn ReviewUpdateFn) (*domain.ReviewRecord, error)

	// Get returns ErrReviewRecordNotFound when the user has never
	// attempted the exercise.
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ReviewRecord, error)

	// ListDue returns the user's records with NextReviewAt <= asOf,
	// oldest first.
	ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ReviewRecord, error)

	// CountStats counts the user's records, those due by todayEnd and those
	// due after todayEnd but by tomorrowEnd.
	CountStats(ctx context.Context, userID uuid.UUID, todayEnd, tomorrowEnd time.Time) (domain.ReviewStats, error)

	// DeleteAllForUser removes every record of the user and reports how
	// many were removed.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a ReviewStore bound to tx.
	WithTx(tx *sql.Tx) ReviewStore
}
