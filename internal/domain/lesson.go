package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lesson validation errors
var (
	ErrLessonInvalidSequence = errors.New("lesson sequence must be greater than 0")
	ErrLessonTitleEmpty      = errors.New("lesson title cannot be empty")
	ErrLessonCardMismatch    = errors.New("lesson card does not belong to lesson or is out of order")
)

// Lesson is an ordered list of cards, itself ordered among lessons by Sequence.
type Lesson struct {
	ID          uuid.UUID `json:"id"`
	Sequence    int       `json:"sequence"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLesson creates an empty lesson. Cards are appended with
// AddKnowledgeCard and AddPracticeCard.
func NewLesson(sequence int, title, description string, now time.Time) (*Lesson, error) {
	now = now.UTC()
	l := &Lesson{
		ID:          uuid.New(),
		Sequence:    sequence,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Cards:       []Card{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the lesson fields and that cards are positioned 0..n-1
// under this lesson.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrInvalidID
	}
	if l.Sequence <= 0 {
		return ErrLessonInvalidSequence
	}
	if l.Title == "" {
		return ErrLessonTitleEmpty
	}
	for i, c := range l.Cards {
		h := c.Header()
		if h.LessonID != l.ID || h.Position != i {
			return ErrLessonCardMismatch
		}
	}
	return nil
}

// AddKnowledgeCard appends a knowledge card.
func (l *Lesson) AddKnowledgeCard(content string) (*KnowledgeCard, error) {
	c, err := NewKnowledgeCard(l.ID, len(l.Cards), content)
	if err != nil {
		return nil, err
	}
	l.Cards = append(l.Cards, c)
	return c, nil
}

// AddPracticeCard appends a practice card.
func (l *Lesson) AddPracticeCard(spec PracticeSpec) (*PracticeCard, error) {
	c, err := NewPracticeCard(l.ID, len(l.Cards), spec)
	if err != nil {
		return nil, err
	}
	l.Cards = append(l.Cards, c)
	return c, nil
}

// Rebind moves the lesson and its cards to id.
func (l *Lesson) Rebind(id uuid.UUID) {
	l.ID = id
	for _, c := range l.Cards {
		switch card := c.(type) {
		case *KnowledgeCard:
			card.LessonID = id
		case *PracticeCard:
			card.LessonID = id
		}
	}
}

// PracticeCards returns the practice cards in lesson order.
func (l *Lesson) PracticeCards() []*PracticeCard {
	var out []*PracticeCard
	for _, c := range l.Cards {
		if p, ok := c.(*PracticeCard); ok {
			out = append(out, p)
		}
	}
	return out
}

// LessonSummary is a lesson without its cards, used for listings.
type LessonSummary struct {
	ID          uuid.UUID `json:"id"`
	Sequence    int       `json:"sequence"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CardCount   int       `json:"card_count"`
}
