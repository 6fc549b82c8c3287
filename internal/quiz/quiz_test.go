package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/pkg/models"
)

// cycleSource returns its cards in round-robin order
type cycleSource struct {
	cards []models.Card
	next  int
	calls int
	err   error

	byTargetCalls int
	excluded      []string
}

func (s *cycleSource) GetRandomUserCard(_ context.Context, _ int64) (*models.Card, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.cards) == 0 {
		return nil, nil
	}
	c := s.cards[s.next%len(s.cards)]
	s.next++
	return &c, nil
}

func (s *cycleSource) GetRandomUserCardsByTarget(_ context.Context, _ int64, exclude []string, limit int) ([]models.Card, error) {
	s.byTargetCalls++
	s.excluded = append([]string(nil), exclude...)
	if s.err != nil {
		return nil, s.err
	}
	skip := make(map[string]bool)
	for _, text := range exclude {
		skip[text] = true
	}
	var cards []models.Card
	for _, c := range s.cards {
		if len(cards) == limit {
			break
		}
		if !skip[c.Target.Text] {
			skip[c.Target.Text] = true
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func card(id int64, source, target string) models.Card {
	return models.Card{
		ID:     id,
		Source: models.Word{ID: id, Text: source, Language: models.LanguageSource},
		Target: models.Word{ID: 100 + id, Text: target, Language: models.LanguageTarget},
	}
}

func TestDistractorsAreDistinct(t *testing.T) {
	answer := card(1, "кот", "cat")
	src := &cycleSource{cards: []models.Card{
		answer,
		card(2, "кошка", "cat"),
		card(3, "собака", "dog"),
		card(4, "пёс", "dog"),
		card(5, "дом", "house"),
		card(6, "вода", "water"),
	}}
	b := NewBuilderWithSeed(logger.Nop(), 1)

	distractors, err := b.Distractors(context.Background(), src, 1, answer)
	require.NoError(t, err)
	require.Len(t, distractors, models.DistractorCount)

	seen := map[string]bool{"cat": true}
	for i, d := range distractors {
		assert.Equal(t, i, d.Position)
		assert.False(t, seen[d.Card.Target.Text], "duplicate target %q", d.Card.Target.Text)
		seen[d.Card.Target.Text] = true
	}
}

func TestDistractorsGiveUp(t *testing.T) {
	answer := card(1, "кот", "cat")
	src := &cycleSource{cards: []models.Card{answer, card(2, "кошка", "cat"), card(3, "собака", "dog")}}
	b := NewBuilderWithSeed(logger.Nop(), 1)
	b.MaxDraws = 10

	_, err := b.Distractors(context.Background(), src, 1, answer)
	assert.ErrorIs(t, err, ErrNotEnoughChoices)
	assert.Equal(t, 10, src.calls)
	assert.Equal(t, 1, src.byTargetCalls)
	assert.Equal(t, []string{"cat", "dog"}, src.excluded)
}

func TestDistractorsSkewedCollection(t *testing.T) {
	answer := card(1, "кот", "cat")
	cards := []models.Card{card(2, "собака", "dog")}
	for id := int64(10); id < 60; id++ {
		cards = append(cards, card(id, fmt.Sprintf("кот%d", id), "cat"))
	}
	cards = append(cards, card(3, "дом", "house"), card(4, "вода", "water"))
	src := &cycleSource{cards: cards}
	b := NewBuilderWithSeed(logger.Nop(), 1)
	b.MaxDraws = 20

	distractors, err := b.Distractors(context.Background(), src, 1, answer)
	require.NoError(t, err)
	require.Len(t, distractors, models.DistractorCount)
	assert.Equal(t, 20, src.calls)
	assert.Equal(t, 1, src.byTargetCalls)
	assert.Equal(t, []string{"cat", "dog"}, src.excluded)

	var targets []string
	for i, d := range distractors {
		assert.Equal(t, i, d.Position)
		targets = append(targets, d.Card.Target.Text)
	}
	assert.Equal(t, []string{"dog", "house", "water"}, targets)
}

func TestDistractorsSkipFallbackWhenDrawsSuffice(t *testing.T) {
	answer := card(1, "один", "one")
	src := &cycleSource{cards: []models.Card{card(2, "два", "two"), card(3, "три", "three"), card(4, "четыре", "four")}}
	b := NewBuilderWithSeed(logger.Nop(), 1)

	_, err := b.Distractors(context.Background(), src, 1, answer)
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
	assert.Zero(t, src.byTargetCalls)
}

func TestDistractorsEmptyCollection(t *testing.T) {
	b := NewBuilderWithSeed(logger.Nop(), 1)
	_, err := b.Distractors(context.Background(), &cycleSource{}, 1, card(1, "a", "b"))
	assert.ErrorIs(t, err, ErrNotEnoughChoices)
}

func TestDistractorsSourceError(t *testing.T) {
	boom := errors.New("boom")
	b := NewBuilderWithSeed(logger.Nop(), 1)
	_, err := b.Distractors(context.Background(), &cycleSource{err: boom}, 1, card(1, "a", "b"))
	assert.ErrorIs(t, err, boom)
}

func TestQuestion(t *testing.T) {
	cards := []models.Card{
		card(1, "один", "one"),
		card(2, "два", "two"),
		card(3, "три", "three"),
		card(4, "четыре", "four"),
	}
	b := NewBuilderWithSeed(logger.Nop(), 42)

	positions := make(map[int]bool)
	for i := 0; i < 200; i++ {
		q, err := b.Question(context.Background(), &cycleSource{cards: cards}, 7, i, cards[0])
		require.NoError(t, err)
		assert.Equal(t, int64(7), q.UserID)
		assert.Equal(t, i, q.Order)
		assert.Equal(t, cards[0], q.Card)
		require.GreaterOrEqual(t, q.AnswerPosition, 0)
		require.Less(t, q.AnswerPosition, models.ChoiceCount)
		assert.Equal(t, cards[0], q.Choices()[q.AnswerPosition])
		positions[q.AnswerPosition] = true
	}
	assert.Len(t, positions, models.ChoiceCount, "every answer position should occur")
}

func TestKeyboard(t *testing.T) {
	q := &models.LearningQuestion{
		Card:           card(1, "один", "one"),
		AnswerPosition: 2,
		Distractors: []models.Distractor{
			{Position: 0, Card: card(2, "два", "two")},
			{Position: 1, Card: card(3, "три", "three")},
			{Position: 2, Card: card(4, "четыре", "four")},
		},
	}

	kb := Keyboard(q)
	assert.Equal(t, KeyboardRowWidth, kb.RowWidth)
	assert.Equal(t, []string{
		"two", "three", "one", "four",
		messages.LearningSkip, messages.LearningDelete, messages.LearningFinish,
	}, kb.Buttons)
}
