// Package cards creates words and learning cards from user input.
package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/pkg/models"
)

// MaxWordLength is the maximum length of a word in runes
const MaxWordLength = 64

var (
	ErrWordTooLong = errors.New("word is too long")
	ErrEmptyWord   = errors.New("word is empty")
)

// Store is the part of the storage the card manager writes to
type Store interface {
	GetOrCreateWord(ctx context.Context, text string, lang models.Language) (models.Word, error)
	GetOrCreateCard(ctx context.Context, source, target models.Word) (models.Card, error)
	AddUserCard(ctx context.Context, userID, cardID int64) error
}

// Manager creates or reuses words and cards. It holds no state of its own,
// every call works within the given store.
type Manager struct {
	log *logger.Logger
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{log: log.Named("cards")}
}

// Normalize prepares user input for storage and matching
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Validate normalizes text and checks that it can be stored as a word
func Validate(text string) (string, error) {
	text = Normalize(text)
	if text == "" {
		return "", ErrEmptyWord
	}
	if utf8.RuneCountInString(text) > MaxWordLength {
		return "", ErrWordTooLong
	}
	return text, nil
}

// AddSourceWord returns the stored source word for text, creating it if needed
func (m *Manager) AddSourceWord(ctx context.Context, s Store, text string) (models.Word, error) {
	return m.addWord(ctx, s, text, models.LanguageSource)
}

// AddTargetWord returns the stored target word for text, creating it if needed
func (m *Manager) AddTargetWord(ctx context.Context, s Store, text string) (models.Word, error) {
	return m.addWord(ctx, s, text, models.LanguageTarget)
}

func (m *Manager) addWord(ctx context.Context, s Store, text string, lang models.Language) (models.Word, error) {
	text, err := Validate(text)
	if err != nil {
		return models.Word{}, err
	}
	return s.GetOrCreateWord(ctx, text, lang)
}

// AddCard pairs an already stored source word with a target text
func (m *Manager) AddCard(ctx context.Context, s Store, source models.Word, targetText string) (models.Card, error) {
	target, err := m.AddTargetWord(ctx, s, targetText)
	if err != nil {
		return models.Card{}, err
	}
	return s.GetOrCreateCard(ctx, source, target)
}

// AddCardTexts creates or reuses a card for a pair of texts
func (m *Manager) AddCardTexts(ctx context.Context, s Store, sourceText, targetText string) (models.Card, error) {
	source, err := m.AddSourceWord(ctx, s, sourceText)
	if err != nil {
		return models.Card{}, err
	}
	return m.AddCard(ctx, s, source, targetText)
}

// SeedDefaultCards attaches a card for every pair to the user. Pairs that
// fail validation are skipped and logged. It returns the number of
// attached cards.
func (m *Manager) SeedDefaultCards(ctx context.Context, s Store, userID int64, pairs []models.CardPair) (int, error) {
	added := 0
	for _, p := range pairs {
		card, err := m.AddCardTexts(ctx, s, p.Source, p.Target)
		if errors.Is(err, ErrEmptyWord) || errors.Is(err, ErrWordTooLong) {
			m.log.Warn("Skipping invalid default card", "source", p.Source, "target", p.Target, "error", err)
			continue
		}
		if err != nil {
			return added, fmt.Errorf("failed to add default card %q: %w", p.Source, err)
		}
		if err := s.AddUserCard(ctx, userID, card.ID); err != nil {
			return added, err
		}
		added++
	}
	m.log.Debug("Seeded default cards", "user_id", userID, "count", added)
	return added, nil
}
