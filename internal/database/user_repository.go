package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/cardbot/pkg/models"
)

// GetUser returns a user by Telegram ID or nil if the user is unknown
func (t *Tx) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := t.tx.GetContext(ctx, &user,
		t.q("SELECT id, username, first_name, last_name, state FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// AddUser inserts a new user
func (t *Tx) AddUser(ctx context.Context, user *models.User) error {
	ts := now()
	_, err := t.tx.ExecContext(ctx, t.q(`
		INSERT INTO users (id, username, first_name, last_name, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.Username, user.FirstName, user.LastName, user.State, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

// UpdateUser stores profile fields and state of an existing user. It
// returns ErrUserNotFound if there is no such user.
func (t *Tx) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := t.tx.ExecContext(ctx, t.q(`
		UPDATE users SET
			username = ?,
			first_name = ?,
			last_name = ?,
			state = ?,
			updated_at = ?
		WHERE id = ?`),
		user.Username, user.FirstName, user.LastName, user.State, now(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes a user with all their cards and session records.
// It reports whether the user existed.
func (t *Tx) DeleteUser(ctx context.Context, id int64) (bool, error) {
	for _, del := range []func(context.Context, int64) error{
		t.DeleteLearningQuestions,
		t.DeleteLearningProgress,
		t.DeleteAddCardProgress,
	} {
		if err := del(ctx, id); err != nil {
			return false, err
		}
	}
	if _, err := t.tx.ExecContext(ctx, t.q("DELETE FROM user_cards WHERE user_id = ?"), id); err != nil {
		return false, fmt.Errorf("failed to delete user cards: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, t.q("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return n > 0, nil
}
