package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/cardbot/pkg/models"
)

// GetAddCardProgress returns the pending source word of the add card
// dialogue or nil if there is none
func (t *Tx) GetAddCardProgress(ctx context.Context, userID int64) (*models.AddCardProgress, error) {
	var row struct {
		UserID   int64  `db:"user_id"`
		WordID   int64  `db:"word_id"`
		WordText string `db:"word_text"`
	}
	err := t.tx.GetContext(ctx, &row, t.q(`
		SELECT p.user_id, w.id AS word_id, w.text AS word_text
		FROM add_card_progress p JOIN words w ON w.id = p.source_word_id
		WHERE p.user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get add card progress: %w", err)
	}

	return &models.AddCardProgress{
		UserID:     row.UserID,
		SourceWord: models.Word{ID: row.WordID, Text: row.WordText, Language: models.LanguageSource},
	}, nil
}

// SetAddCardProgress stores the source word for the user, replacing any
// previous one
func (t *Tx) SetAddCardProgress(ctx context.Context, userID int64, source models.Word) error {
	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO add_card_progress (user_id, source_word_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			source_word_id = excluded.source_word_id,
			created_at = excluded.created_at`), userID, source.ID, now())
	if err != nil {
		return fmt.Errorf("failed to save add card progress: %w", err)
	}
	return nil
}

// DeleteAddCardProgress discards the pending source word of the user
func (t *Tx) DeleteAddCardProgress(ctx context.Context, userID int64) error {
	_, err := t.tx.ExecContext(ctx, t.q("DELETE FROM add_card_progress WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete add card progress: %w", err)
	}
	return nil
}
