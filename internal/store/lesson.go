package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
)

// LessonStore persists lessons, their cards and per-user completions.
type LessonStore interface {
	// List returns lesson summaries ordered by sequence.
	List(ctx context.Context) ([]domain.LessonSummary, error)

	// Get returns the lesson with its cards ordered by position.
	// Returns ErrLessonNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// GetCard returns ErrCardNotFound if no card has the ID.
	GetCard(ctx context.Context, id uuid.UUID) (domain.Card, error)

	// Save inserts the lesson or, when a lesson with the same sequence
	// exists, replaces its fields and cards. On replace the lesson keeps
	// its stored ID and lesson.ID is updated to it. Card IDs are kept as
	// given, so re-importing the same content keeps review history.
	Save(ctx context.Context, lesson *domain.Lesson) error

	// MarkCompleted records that the user finished the lesson. Completing
	// twice keeps the first time.
	MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID, at time.Time) error

	// CompletedAt returns nil when the user has not completed the lesson.
	CompletedAt(ctx context.Context, userID, lessonID uuid.UUID) (*time.Time, error)

	// DeleteCompletionsForUser removes the user's completion marks.
	DeleteCompletionsForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a LessonStore bound to tx.
	WithTx(tx *sql.Tx) LessonStore
}
