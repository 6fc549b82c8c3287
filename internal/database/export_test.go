package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/cardbot/pkg/models"
)

// Lookups used by tests to inspect stored words and cards

// CountWords returns the number of stored words of a language
func (t *Tx) CountWords(ctx context.Context, lang models.Language) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count, t.q("SELECT COUNT(*) FROM words WHERE language = ?"), lang)
	if err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// GetCard returns a card with both words or nil if it does not exist
func (t *Tx) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	var row cardRow
	err := t.tx.GetContext(ctx, &row, t.q("SELECT "+cardColumns+" FROM cards c"+wordJoins+" WHERE c.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	card := row.toCard()
	return &card, nil
}

// CountCards returns the number of stored cards
func (t *Tx) CountCards(ctx context.Context) (int, error) {
	var count int
	if err := t.tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM cards"); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
