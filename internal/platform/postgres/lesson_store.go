package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// PostgresLessonStore implements store.LessonStore. Card content is kept
// as JSONB next to its kind.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.LessonStore = (*PostgresLessonStore)(nil)

// NewPostgresLessonStore creates a lesson store.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

// WithTx implements store.LessonStore.
func (s *PostgresLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return &PostgresLessonStore{db: tx, logger: s.logger}
}

// List implements store.LessonStore.
func (s *PostgresLessonStore) List(ctx context.Context) ([]domain.LessonSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.sequence, l.title, l.description, COUNT(c.id)
		FROM lessons l
		LEFT JOIN cards c ON c.lesson_id = l.id
		GROUP BY l.id
		ORDER BY l.sequence ASC`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lessons := []domain.LessonSummary{}
	for rows.Next() {
		var l domain.LessonSummary
		if err := rows.Scan(&l.ID, &l.Sequence, &l.Title, &l.Description, &l.CardCount); err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return lessons, nil
}

// Get implements store.LessonStore.
func (s *PostgresLessonStore) Get(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var l domain.Lesson
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sequence, title, description, created_at, updated_at
		FROM lessons WHERE id = $1`, id).
		Scan(&l.ID, &l.Sequence, &l.Title, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, entityError(err, store.ErrLessonNotFound, nil)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lesson_id, position, kind, content
		FROM cards WHERE lesson_id = $1
		ORDER BY position ASC`, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	l.Cards = []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		l.Cards = append(l.Cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return &l, nil
}

// GetCard implements store.LessonStore.
func (s *PostgresLessonStore) GetCard(ctx context.Context, id uuid.UUID) (domain.Card, error) {
	return scanCard(s.db.QueryRowContext(ctx, `
		SELECT id, lesson_id, position, kind, content
		FROM cards WHERE id = $1`, id))
}

// Save implements store.LessonStore. Run it in a transaction: it issues
// several statements and the position constraint is checked at commit.
func (s *PostgresLessonStore) Save(ctx context.Context, lesson *domain.Lesson) error {
	if err := lesson.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lessons (id, sequence, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sequence) DO UPDATE
		SET title = EXCLUDED.title,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		lesson.ID, lesson.Sequence, lesson.Title, lesson.Description,
		lesson.CreatedAt.UTC(), lesson.UpdatedAt.UTC()).Scan(&id)
	if err != nil {
		return store.NewStoreError("lesson", "save", "failed to upsert lesson", MapError(err))
	}
	if id != lesson.ID {
		lesson.Rebind(id)
	}

	keep := make([]string, 0, len(lesson.Cards))
	for _, card := range lesson.Cards {
		kind, content, err := domain.EncodeCardContent(card)
		if err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		h := card.Header()
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO cards (id, lesson_id, position, kind, content)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET lesson_id = EXCLUDED.lesson_id,
				position = EXCLUDED.position,
				kind = EXCLUDED.kind,
				content = EXCLUDED.content`,
			h.ID, h.LessonID, h.Position, string(kind), []byte(content))
		if err != nil {
			return store.NewStoreError("card", "save", "failed to upsert card", MapError(err))
		}
		keep = append(keep, h.ID.String())
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cards
		WHERE lesson_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		lesson.ID, keep)
	if err != nil {
		return store.NewStoreError("card", "save", "failed to remove stale cards", MapError(err))
	}
	removed, _ := result.RowsAffected()

	s.logger.DebugContext(ctx, "lesson saved",
		slog.String("lesson_id", lesson.ID.String()),
		slog.Int("sequence", lesson.Sequence),
		slog.Int("cards", len(lesson.Cards)),
		slog.Int64("removed_cards", removed))
	return nil
}

// MarkCompleted implements store.LessonStore.
func (s *PostgresLessonStore) MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lesson_completions (user_id, lesson_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID, lessonID, at.UTC())
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrLessonNotFound, err)
		}
		return MapError(err)
	}
	return nil
}

// CompletedAt implements store.LessonStore.
func (s *PostgresLessonStore) CompletedAt(ctx context.Context, userID, lessonID uuid.UUID) (*time.Time, error) {
	var at sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT completed_at FROM lesson_completions
		WHERE user_id = $1 AND lesson_id = $2`,
		userID, lessonID).Scan(&at)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, MapError(err)
	}
	return utcPtr(at), nil
}

// DeleteCompletionsForUser implements store.LessonStore.
func (s *PostgresLessonStore) DeleteCompletionsForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lesson_completions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, MapError(err)
	}
	return result.RowsAffected()
}

func scanCard(row rowScanner) (domain.Card, error) {
	var (
		h       domain.CardHeader
		kind    string
		content []byte
	)
	if err := row.Scan(&h.ID, &h.LessonID, &h.Position, &kind, &content); err != nil {
		return nil, entityError(err, store.ErrCardNotFound, nil)
	}
	card, err := domain.DecodeCard(h, domain.CardKind(kind), json.RawMessage(content))
	if err != nil {
		return nil, store.NewStoreError("card", "decode", "stored card is invalid", err)
	}
	return card, nil
}
