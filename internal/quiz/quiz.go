// Package quiz builds multiple choice questions from a user's cards.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/pkg/models"
)

// DefaultMaxDraws limits random card draws per question before the
// builder asks the source for distinct target words directly
const DefaultMaxDraws = 100

// KeyboardRowWidth is the number of buttons per row of a question keyboard
const KeyboardRowWidth = 2

// ErrNotEnoughChoices is returned when the user's cards do not provide
// enough distinct wrong answers
var ErrNotEnoughChoices = errors.New("not enough distinct cards for distractors")

// CardSource samples cards of a user
type CardSource interface {
	GetRandomUserCard(ctx context.Context, userID int64) (*models.Card, error)
	GetRandomUserCardsByTarget(ctx context.Context, userID int64, exclude []string, limit int) ([]models.Card, error)
}

// Builder creates questions with random distractors and answer positions
type Builder struct {
	MaxDraws int

	mu  sync.Mutex
	rnd *rand.Rand
	log *logger.Logger
}

// NewBuilder creates a question builder seeded from the clock
func NewBuilder(log *logger.Logger) *Builder {
	return NewBuilderWithSeed(log, time.Now().UnixNano())
}

// NewBuilderWithSeed creates a question builder with a fixed seed
func NewBuilderWithSeed(log *logger.Logger, seed int64) *Builder {
	return &Builder{
		MaxDraws: DefaultMaxDraws,
		rnd:      rand.New(rand.NewSource(seed)),
		log:      log.Named("quiz"),
	}
}

// Question builds a question for card at the given position of a session
func (b *Builder) Question(ctx context.Context, src CardSource, userID int64, order int, card models.Card) (*models.LearningQuestion, error) {
	distractors, err := b.Distractors(ctx, src, userID, card)
	if err != nil {
		return nil, err
	}
	return &models.LearningQuestion{
		UserID:         userID,
		Order:          order,
		Card:           card,
		AnswerPosition: b.intn(models.ChoiceCount),
		Distractors:    distractors,
	}, nil
}

// Distractors picks DistractorCount cards of the user whose target texts
// differ from the answer and from each other. Cards are drawn one at a
// time. After MaxDraws draws the missing distractors are taken from cards
// with target texts not seen yet; if there are too few of those it fails
// with ErrNotEnoughChoices.
func (b *Builder) Distractors(ctx context.Context, src CardSource, userID int64, answer models.Card) ([]models.Distractor, error) {
	seen := []string{answer.Target.Text}
	distractors := make([]models.Distractor, 0, models.DistractorCount)
	add := func(card models.Card) {
		if slices.Contains(seen, card.Target.Text) {
			return
		}
		seen = append(seen, card.Target.Text)
		distractors = append(distractors, models.Distractor{Position: len(distractors), Card: card})
	}

	for draws := 0; draws < b.MaxDraws && len(distractors) < models.DistractorCount; draws++ {
		card, err := src.GetRandomUserCard(ctx, userID)
		if err != nil {
			return nil, err
		}
		if card != nil {
			add(*card)
		}
	}
	if len(distractors) == models.DistractorCount {
		return distractors, nil
	}

	b.log.Debug("Drawing distractors from distinct targets",
		"user_id", userID, "card_id", answer.ID, "found", len(distractors))
	rest, err := src.GetRandomUserCardsByTarget(ctx, userID, seen, models.DistractorCount-len(distractors))
	if err != nil {
		return nil, err
	}
	for _, card := range rest {
		if len(distractors) < models.DistractorCount {
			add(card)
		}
	}
	if len(distractors) < models.DistractorCount {
		b.log.Warn("Not enough distinct cards for distractors",
			"user_id", userID, "card_id", answer.ID, "found", len(distractors))
		return nil, fmt.Errorf("card %d: %w", answer.ID, ErrNotEnoughChoices)
	}
	return distractors, nil
}

func (b *Builder) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rnd.Intn(n)
}

// Keyboard returns the answer options of a question followed by the
// learning menu
func Keyboard(q *models.LearningQuestion) *models.Keyboard {
	choices := q.Choices()
	buttons := make([]string, 0, len(choices)+len(messages.LearningMenu))
	for _, c := range choices {
		buttons = append(buttons, c.Target.Text)
	}
	buttons = append(buttons, messages.LearningMenu...)
	return &models.Keyboard{RowWidth: KeyboardRowWidth, Buttons: buttons}
}
