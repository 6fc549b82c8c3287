package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/cardbot/pkg/models"
)

// AddUserCard adds a card to the user's collection. Adding a card twice is
// a no-op.
func (t *Tx) AddUserCard(ctx context.Context, userID, cardID int64) error {
	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO user_cards (user_id, card_id) VALUES (?, ?)
		ON CONFLICT (user_id, card_id) DO NOTHING`), userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to add user card: %w", err)
	}
	return nil
}

// RemoveUserCard removes a card from the user's collection. The card itself
// stays, other users may hold it.
func (t *Tx) RemoveUserCard(ctx context.Context, userID, cardID int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		t.q("DELETE FROM user_cards WHERE user_id = ? AND card_id = ?"), userID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to remove user card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove user card: %w", err)
	}
	return n > 0, nil
}

// CountUserCards returns the size of the user's card collection
func (t *Tx) CountUserCards(ctx context.Context, userID int64) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count, t.q("SELECT COUNT(*) FROM user_cards WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count user cards: %w", err)
	}
	return count, nil
}

// CountUserTargetWords returns the number of distinct target words among
// the user's cards
func (t *Tx) CountUserTargetWords(ctx context.Context, userID int64) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count, t.q(`
		SELECT COUNT(DISTINCT c.target_word_id)
		FROM user_cards uc JOIN cards c ON c.id = uc.card_id
		WHERE uc.user_id = ?`), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count user target words: %w", err)
	}
	return count, nil
}

// GetUserCards returns all cards of the user ordered by card ID
func (t *Tx) GetUserCards(ctx context.Context, userID int64) ([]models.Card, error) {
	return t.selectUserCards(ctx, userID, "c.id")
}

// GetUserCardsRandom returns all cards of the user in random order
func (t *Tx) GetUserCardsRandom(ctx context.Context, userID int64) ([]models.Card, error) {
	return t.selectUserCards(ctx, userID, "RANDOM()")
}

// GetRandomUserCard returns a uniformly chosen card of the user or nil if
// the collection is empty
func (t *Tx) GetRandomUserCard(ctx context.Context, userID int64) (*models.Card, error) {
	var row cardRow
	err := t.tx.GetContext(ctx, &row, t.q(`
		SELECT `+cardColumns+`
		FROM user_cards uc JOIN cards c ON c.id = uc.card_id`+wordJoins+`
		WHERE uc.user_id = ?
		ORDER BY RANDOM()
		LIMIT 1`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get random user card: %w", err)
	}
	card := row.toCard()
	return &card, nil
}

// GetRandomUserCardsByTarget returns up to limit random cards of the user,
// at most one per target word. Cards whose target text is in exclude are
// skipped.
func (t *Tx) GetRandomUserCardsByTarget(ctx context.Context, userID int64, exclude []string, limit int) ([]models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards c` + wordJoins + `
		WHERE c.id IN (
			SELECT MIN(uc.card_id)
			FROM user_cards uc JOIN cards uc_c ON uc_c.id = uc.card_id
			WHERE uc.user_id = ?
			GROUP BY uc_c.target_word_id)`
	args := []interface{}{userID}
	if len(exclude) > 0 {
		query += " AND t.text NOT IN (?)"
		args = append(args, exclude)
	}
	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, limit)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build user cards query: %w", err)
	}

	var rows []cardRow
	if err := t.tx.SelectContext(ctx, &rows, t.q(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get user cards by target: %w", err)
	}
	cards := make([]models.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toCard())
	}
	return cards, nil
}

func (t *Tx) selectUserCards(ctx context.Context, userID int64, orderBy string) ([]models.Card, error) {
	var rows []cardRow
	err := t.tx.SelectContext(ctx, &rows, t.q(`
		SELECT `+cardColumns+`
		FROM user_cards uc JOIN cards c ON c.id = uc.card_id`+wordJoins+`
		WHERE uc.user_id = ?
		ORDER BY `+orderBy), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user cards: %w", err)
	}

	cards := make([]models.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toCard())
	}
	return cards, nil
}
