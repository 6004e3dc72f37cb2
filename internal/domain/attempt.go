package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt validation errors
var (
	ErrAttemptUserIDEmpty     = errors.New("attempt user ID cannot be empty")
	ErrAttemptExerciseIDEmpty = errors.New("attempt exercise ID cannot be empty")
)

// PracticeAttempt is the append-only log entry of one submission.
type PracticeAttempt struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	UserAnswer   string    `json:"user_answer"`
	TargetAnswer string    `json:"target_answer"`
	IsCorrect    bool      `json:"is_correct"`
	TipType      string    `json:"tip_type,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewPracticeAttempt builds a validated attempt.
func NewPracticeAttempt(
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
	isCorrect bool,
	tipType string,
	now time.Time,
) (*PracticeAttempt, error) {
	a := &PracticeAttempt{
		ID:           uuid.New(),
		UserID:       userID,
		ExerciseID:   exerciseID,
		UserAnswer:   userAnswer,
		TargetAnswer: targetAnswer,
		IsCorrect:    isCorrect,
		TipType:      tipType,
		SubmittedAt:  now.UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the attempt fields.
func (a *PracticeAttempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrInvalidID
	}
	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}
	if a.ExerciseID == uuid.Nil {
		return ErrAttemptExerciseIDEmpty
	}
	return nil
}

// ExerciseProgress aggregates a user's attempts on one practice card.
type ExerciseProgress struct {
	ExerciseID    uuid.UUID  `json:"exercise_id"`
	Attempts      int        `json:"attempts"`
	Solved        bool       `json:"solved"`
	FirstSolvedAt *time.Time `json:"first_solved_at,omitempty"`
}

// LessonProgress reports a user's progress through the practice cards of a
// lesson.
type LessonProgress struct {
	LessonID    uuid.UUID          `json:"lesson_id"`
	Exercises   []ExerciseProgress `json:"exercises"`
	Solved      int                `json:"solved"`
	Total       int                `json:"total"`
	Completed   bool               `json:"completed"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// BuildLessonProgress merges per-exercise aggregates into the card order of
// lesson. Cards without attempts are reported with zero attempts.
func BuildLessonProgress(
	lesson *Lesson,
	byExercise map[uuid.UUID]ExerciseProgress,
	completedAt *time.Time,
) *LessonProgress {
	p := &LessonProgress{
		LessonID:    lesson.ID,
		Exercises:   []ExerciseProgress{},
		Completed:   completedAt != nil,
		CompletedAt: completedAt,
	}
	for _, card := range lesson.PracticeCards() {
		ep, ok := byExercise[card.ID]
		if !ok {
			ep = ExerciseProgress{ExerciseID: card.ID}
		}
		if ep.Solved {
			p.Solved++
		}
		p.Total++
		p.Exercises = append(p.Exercises, ep)
	}
	return p
}
