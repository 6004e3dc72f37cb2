package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CardKind discriminates the card variants.
type CardKind string

const (
	CardKindKnowledge CardKind = "knowledge"
	CardKindPractice  CardKind = "practice"
)

// Difficulty of a practice card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Card-specific validation errors
var (
	ErrCardLessonIDEmpty     = errors.New("card lesson ID cannot be empty")
	ErrCardNegativePosition  = errors.New("card position must be greater than or equal to 0")
	ErrCardContentEmpty      = errors.New("card content cannot be empty")
	ErrCardQuestionEmpty     = errors.New("practice card question cannot be empty")
	ErrCardTargetEmpty       = errors.New("practice card target formula cannot be empty")
	ErrCardEmptyHint         = errors.New("practice card hints cannot be blank")
	ErrCardInvalidDifficulty = errors.New("invalid practice card difficulty")
	ErrUnknownCardKind       = errors.New("unknown card kind")
)

// CardHeader carries the fields shared by every card variant.
type CardHeader struct {
	ID       uuid.UUID `json:"id"`
	LessonID uuid.UUID `json:"lesson_id"`
	Position int       `json:"position"`
}

// Header returns the shared fields of the card.
func (h CardHeader) Header() CardHeader { return h }

func (h CardHeader) validate() error {
	if h.ID == uuid.Nil {
		return ErrInvalidID
	}
	if h.LessonID == uuid.Nil {
		return ErrCardLessonIDEmpty
	}
	if h.Position < 0 {
		return ErrCardNegativePosition
	}
	return nil
}

// Card is one step of a lesson: either a KnowledgeCard or a PracticeCard.
// The set of implementations is closed.
type Card interface {
	Header() CardHeader
	Kind() CardKind
	isCard()
}

// KnowledgeCard presents explanatory markdown content.
type KnowledgeCard struct {
	CardHeader
	Content string `json:"content"`
}

// NewKnowledgeCard builds a validated knowledge card.
func NewKnowledgeCard(lessonID uuid.UUID, position int, content string) (*KnowledgeCard, error) {
	c := &KnowledgeCard{
		CardHeader: CardHeader{ID: uuid.New(), LessonID: lessonID, Position: position},
		Content:    content,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind implements Card.
func (*KnowledgeCard) Kind() CardKind { return CardKindKnowledge }

func (*KnowledgeCard) isCard() {}

// Validate checks the card fields.
func (c *KnowledgeCard) Validate() error {
	if err := c.CardHeader.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Content) == "" {
		return ErrCardContentEmpty
	}
	return nil
}

// MarshalJSON adds the type discriminator.
func (c *KnowledgeCard) MarshalJSON() ([]byte, error) {
	type plain KnowledgeCard
	return json.Marshal(struct {
		Type CardKind `json:"type"`
		*plain
	}{CardKindKnowledge, (*plain)(c)})
}

// PracticeCard asks the learner to type a formula. Its ID is the exercise
// ID that review records are keyed by.
type PracticeCard struct {
	CardHeader
	Question      string     `json:"question"`
	TargetFormula string     `json:"target_formula"`
	Hints         []string   `json:"hints"`
	Difficulty    Difficulty `json:"difficulty"`
}

// PracticeSpec holds the authored fields of a practice card.
type PracticeSpec struct {
	Question      string
	TargetFormula string
	Hints         []string
	Difficulty    Difficulty
}

// NewPracticeCard builds a validated practice card. An empty difficulty
// defaults to easy.
func NewPracticeCard(lessonID uuid.UUID, position int, spec PracticeSpec) (*PracticeCard, error) {
	difficulty := spec.Difficulty
	if difficulty == "" {
		difficulty = DifficultyEasy
	}
	hints := make([]string, len(spec.Hints))
	copy(hints, spec.Hints)

	c := &PracticeCard{
		CardHeader:    CardHeader{ID: uuid.New(), LessonID: lessonID, Position: position},
		Question:      spec.Question,
		TargetFormula: spec.TargetFormula,
		Hints:         hints,
		Difficulty:    difficulty,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind implements Card.
func (*PracticeCard) Kind() CardKind { return CardKindPractice }

func (*PracticeCard) isCard() {}

// Validate checks the card fields.
func (c *PracticeCard) Validate() error {
	if err := c.CardHeader.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}
	if strings.TrimSpace(c.TargetFormula) == "" {
		return ErrCardTargetEmpty
	}
	for _, h := range c.Hints {
		if strings.TrimSpace(h) == "" {
			return ErrCardEmptyHint
		}
	}
	switch c.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: %q", ErrCardInvalidDifficulty, c.Difficulty)
	}
	return nil
}

// Hint returns the hint at level and whether more hints follow it.
func (c *PracticeCard) Hint(level int) (string, bool, bool) {
	if level < 0 || level >= len(c.Hints) {
		return "", false, false
	}
	return c.Hints[level], level < len(c.Hints)-1, true
}

// MarshalJSON adds the type discriminator.
func (c *PracticeCard) MarshalJSON() ([]byte, error) {
	type plain PracticeCard
	return json.Marshal(struct {
		Type CardKind `json:"type"`
		*plain
	}{CardKindPractice, (*plain)(c)})
}

// knowledgeContent and practiceContent are the persisted payloads of the
// variants, without the header columns.
type knowledgeContent struct {
	Content string `json:"content"`
}

type practiceContent struct {
	Question      string     `json:"question"`
	TargetFormula string     `json:"target_formula"`
	Hints         []string   `json:"hints"`
	Difficulty    Difficulty `json:"difficulty"`
}

// EncodeCardContent returns the kind and JSON payload to persist for card.
func EncodeCardContent(card Card) (CardKind, json.RawMessage, error) {
	var payload any
	switch c := card.(type) {
	case *KnowledgeCard:
		payload = knowledgeContent{Content: c.Content}
	case *PracticeCard:
		payload = practiceContent{
			Question:      c.Question,
			TargetFormula: c.TargetFormula,
			Hints:         c.Hints,
			Difficulty:    c.Difficulty,
		}
	default:
		return "", nil, ErrUnknownCardKind
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode card content: %w", err)
	}
	return card.Kind(), raw, nil
}

// DecodeCard rebuilds a validated card from its persisted form.
func DecodeCard(header CardHeader, kind CardKind, raw json.RawMessage) (Card, error) {
	switch kind {
	case CardKindKnowledge:
		var content knowledgeContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("%w: knowledge card content: %v", ErrValidation, err)
		}
		c := &KnowledgeCard{CardHeader: header, Content: content.Content}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	case CardKindPractice:
		var content practiceContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("%w: practice card content: %v", ErrValidation, err)
		}
		c := &PracticeCard{
			CardHeader:    header,
			Question:      content.Question,
			TargetFormula: content.TargetFormula,
			Hints:         content.Hints,
			Difficulty:    content.Difficulty,
		}
		if c.Hints == nil {
			c.Hints = []string{}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCardKind, kind)
	}
}
