// Package lessonfile reads authored lessons from YAML.
//
// A file holds a list of lessons, each with a sequence number and an
// ordered list of cards:
//
//	lessons:
//	  - sequence: 1
//	    title: Fractions
//	    cards:
//	      - type: knowledge
//	        content: Use \frac{a}{b} for fractions.
//	      - type: practice
//	        key: one-half
//	        question: Write one half
//	        target: \frac{1}{2}
//	        hints: [Use \frac]
//
// Lesson and card IDs are derived from the sequence number and the card
// key, so importing the same file twice yields the same IDs and keeps
// users' review history. A card without a key is keyed by its position.
package lessonfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// Namespace seeds the derived lesson and card IDs.
var Namespace = uuid.MustParse("5f0c8e52-3a4f-4b8e-9d1a-7c2b6e9f4a10")

// ErrInvalidFile is returned for files that parse but describe invalid
// lessons.
var ErrInvalidFile = errors.New("invalid lesson file")

// File is the document root.
type File struct {
	Lessons []Lesson `yaml:"lessons"`
}

// Lesson is one authored lesson.
type Lesson struct {
	Sequence    int    `yaml:"sequence"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Cards       []Card `yaml:"cards"`
}

// Card is a knowledge or practice card. Type selects which fields apply.
type Card struct {
	Key        string   `yaml:"key"`
	Type       string   `yaml:"type"`
	Content    string   `yaml:"content"`
	Question   string   `yaml:"question"`
	Target     string   `yaml:"target"`
	Hints      []string `yaml:"hints"`
	Difficulty string   `yaml:"difficulty"`
}

// Parse decodes a lesson file. Unknown fields are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrInvalidFile)
		}
		return nil, fmt.Errorf("failed to decode lesson file: %w", err)
	}
	return &f, nil
}

// Load reads and builds the lessons in the file at path.
func Load(path string, now time.Time) ([]*domain.Lesson, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lesson file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	f, err := Parse(fh)
	if err != nil {
		return nil, err
	}
	return f.Build(now)
}

// Build converts the file into validated domain lessons with stable IDs.
func (f *File) Build(now time.Time) ([]*domain.Lesson, error) {
	if len(f.Lessons) == 0 {
		return nil, fmt.Errorf("%w: no lessons", ErrInvalidFile)
	}

	seen := make(map[int]bool, len(f.Lessons))
	out := make([]*domain.Lesson, 0, len(f.Lessons))
	for i, l := range f.Lessons {
		if seen[l.Sequence] {
			return nil, fmt.Errorf("%w: lesson %d: duplicate sequence %d", ErrInvalidFile, i, l.Sequence)
		}
		seen[l.Sequence] = true

		lesson, err := l.build(now)
		if err != nil {
			return nil, fmt.Errorf("%w: lesson %d: %w", ErrInvalidFile, l.Sequence, err)
		}
		out = append(out, lesson)
	}
	return out, nil
}

func (l Lesson) build(now time.Time) (*domain.Lesson, error) {
	lesson, err := domain.NewLesson(l.Sequence, l.Title, l.Description, now)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(l.Cards))
	for pos, c := range l.Cards {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			key = "#" + strconv.Itoa(pos)
		}
		if keys[key] {
			return nil, fmt.Errorf("card %d: duplicate key %q", pos, key)
		}
		keys[key] = true

		card, err := addCard(lesson, c)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", pos, err)
		}
		setCardID(card, CardID(l.Sequence, key))
	}

	lesson.Rebind(LessonID(l.Sequence))
	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	return lesson, nil
}

func addCard(lesson *domain.Lesson, c Card) (domain.Card, error) {
	switch domain.CardKind(strings.ToLower(strings.TrimSpace(c.Type))) {
	case domain.CardKindKnowledge:
		return lesson.AddKnowledgeCard(c.Content)
	case domain.CardKindPractice:
		return lesson.AddPracticeCard(domain.PracticeSpec{
			Question:      c.Question,
			TargetFormula: c.Target,
			Hints:         c.Hints,
			Difficulty:    domain.Difficulty(strings.ToLower(c.Difficulty)),
		})
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCardKind, c.Type)
	}
}

func setCardID(card domain.Card, id uuid.UUID) {
	switch c := card.(type) {
	case *domain.KnowledgeCard:
		c.ID = id
	case *domain.PracticeCard:
		c.ID = id
	}
}

// LessonID is the ID of the lesson with the given sequence number.
func LessonID(sequence int) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte("lesson/"+strconv.Itoa(sequence)))
}

// CardID is the ID of the card with key in the lesson with the given
// sequence number.
func CardID(sequence int, key string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte("lesson/"+strconv.Itoa(sequence)+"/card/"+key))
}
