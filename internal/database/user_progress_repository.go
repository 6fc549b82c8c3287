package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/cardbot/pkg/models"
)

// GetLearningProgress returns session counters of the user or nil if none
// are stored
func (t *Tx) GetLearningProgress(ctx context.Context, userID int64) (*models.LearningProgress, error) {
	var progress models.LearningProgress
	err := t.tx.GetContext(ctx, &progress, t.q(`
		SELECT user_id, succeeded_count, failed_count, skipped_count
		FROM learning_progress
		WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning progress: %w", err)
	}
	return &progress, nil
}

// SaveLearningProgress creates or replaces session counters of the user
func (t *Tx) SaveLearningProgress(ctx context.Context, progress *models.LearningProgress) error {
	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO learning_progress (user_id, succeeded_count, failed_count, skipped_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			succeeded_count = excluded.succeeded_count,
			failed_count = excluded.failed_count,
			skipped_count = excluded.skipped_count`),
		progress.UserID, progress.Succeeded, progress.Failed, progress.Skipped)
	if err != nil {
		return fmt.Errorf("failed to save learning progress: %w", err)
	}
	return nil
}

// DeleteLearningProgress removes session counters of the user
func (t *Tx) DeleteLearningProgress(ctx context.Context, userID int64) error {
	_, err := t.tx.ExecContext(ctx, t.q("DELETE FROM learning_progress WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete learning progress: %w", err)
	}
	return nil
}
