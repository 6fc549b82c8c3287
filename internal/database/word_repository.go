package database

import (
	"context"
	"fmt"

	"github.com/example/cardbot/pkg/models"
)

// GetOrCreateWord returns the word with the given text and language,
// creating it first if needed. Text must be normalized by the caller.
func (t *Tx) GetOrCreateWord(ctx context.Context, text string, lang models.Language) (models.Word, error) {
	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO words (text, language) VALUES (?, ?)
		ON CONFLICT (text, language) DO NOTHING`), text, lang)
	if err != nil {
		return models.Word{}, fmt.Errorf("failed to add word: %w", err)
	}

	var word models.Word
	err = t.tx.GetContext(ctx, &word,
		t.q("SELECT id, text, language FROM words WHERE text = ? AND language = ?"), text, lang)
	if err != nil {
		return models.Word{}, fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// GetOrCreateCard returns the card for a word pair, creating it if needed
func (t *Tx) GetOrCreateCard(ctx context.Context, source, target models.Word) (models.Card, error) {
	if source.Language != models.LanguageSource || target.Language != models.LanguageTarget {
		return models.Card{}, ErrLanguageMismatch
	}

	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO cards (source_word_id, target_word_id) VALUES (?, ?)
		ON CONFLICT (source_word_id, target_word_id) DO NOTHING`), source.ID, target.ID)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to add card: %w", err)
	}

	var id int64
	err = t.tx.GetContext(ctx, &id,
		t.q("SELECT id FROM cards WHERE source_word_id = ? AND target_word_id = ?"), source.ID, target.ID)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to get card: %w", err)
	}
	return models.Card{ID: id, Source: source, Target: target}, nil
}
