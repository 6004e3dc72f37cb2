package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// ErrNoLessons is returned when an import contains no lessons.
var ErrNoLessons = errors.New("no lessons to import")

// LessonImporter stores authored lessons.
type LessonImporter interface {
	// Import saves every lesson in one transaction, replacing lessons with
	// the same sequence number. Nothing is saved when any lesson fails.
	Import(ctx context.Context, lessons []*domain.Lesson) error
}

type lessonImporter struct {
	lessons store.LessonStore
	db      *sql.DB
	logger  *slog.Logger
}

// NewLessonImporter creates a LessonImporter.
func NewLessonImporter(lessons store.LessonStore, db *sql.DB, logger *slog.Logger) LessonImporter {
	if lessons == nil {
		panic("lessons cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &lessonImporter{
		lessons: lessons,
		db:      db,
		logger:  logger.With(slog.String("component", "lesson_importer")),
	}
}

func (s *lessonImporter) Import(ctx context.Context, lessons []*domain.Lesson) error {
	if len(lessons) == 0 {
		return ErrNoLessons
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txLessons := s.lessons.WithTx(tx)
		for _, lesson := range lessons {
			if err := txLessons.Save(ctx, lesson); err != nil {
				log.Error("failed to save lesson",
					slog.Int("sequence", lesson.Sequence),
					slog.String("error", err.Error()))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return NewServiceError("import lessons", "failed to save lessons", err)
	}

	log.Info("lessons imported", slog.Int("count", len(lessons)))
	return nil
}
