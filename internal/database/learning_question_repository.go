package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/cardbot/pkg/models"
)

type questionRow struct {
	cardRow
	QuestionID     int64 `db:"question_id"`
	UserID         int64 `db:"user_id"`
	Order          int   `db:"order_index"`
	AnswerPosition int   `db:"answer_position"`
}

func (r questionRow) toQuestion() models.LearningQuestion {
	return models.LearningQuestion{
		ID:             r.QuestionID,
		UserID:         r.UserID,
		Order:          r.Order,
		Card:           r.toCard(),
		AnswerPosition: r.AnswerPosition,
	}
}

const questionSelect = `
	SELECT q.id AS question_id, q.user_id, q.order_index, q.answer_position, ` + cardColumns + `
	FROM learning_questions q JOIN cards c ON c.id = q.card_id` + wordJoins

// AddLearningQuestion stores a question with its distractors. The question
// ID is set on success.
func (t *Tx) AddLearningQuestion(ctx context.Context, q *models.LearningQuestion) error {
	var id int64
	err := t.tx.QueryRowxContext(ctx, t.q(`
		INSERT INTO learning_questions (user_id, order_index, card_id, answer_position, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		q.UserID, q.Order, q.Card.ID, q.AnswerPosition, now()).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to add learning question: %w", err)
	}

	for _, d := range q.Distractors {
		_, err := t.tx.ExecContext(ctx, t.q(`
			INSERT INTO learning_distractors (question_id, position, card_id) VALUES (?, ?, ?)`),
			id, d.Position, d.Card.ID)
		if err != nil {
			return fmt.Errorf("failed to add learning distractor: %w", err)
		}
	}

	q.ID = id
	return nil
}

// GetNextLearningQuestion returns the question with the lowest order index
// together with its distractors, or nil when the session has no questions
func (t *Tx) GetNextLearningQuestion(ctx context.Context, userID int64) (*models.LearningQuestion, error) {
	var row questionRow
	err := t.tx.GetContext(ctx, &row, t.q(questionSelect+`
		WHERE q.user_id = ?
		ORDER BY q.order_index
		LIMIT 1`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next learning question: %w", err)
	}

	question := row.toQuestion()
	if question.Distractors, err = t.getDistractors(ctx, question.ID); err != nil {
		return nil, err
	}
	return &question, nil
}

// GetLearningQuestions returns all pending questions of the user in order,
// distractors included
func (t *Tx) GetLearningQuestions(ctx context.Context, userID int64) ([]models.LearningQuestion, error) {
	var rows []questionRow
	err := t.tx.SelectContext(ctx, &rows, t.q(questionSelect+`
		WHERE q.user_id = ?
		ORDER BY q.order_index`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learning questions: %w", err)
	}

	questions := make([]models.LearningQuestion, 0, len(rows))
	for _, r := range rows {
		question := r.toQuestion()
		if question.Distractors, err = t.getDistractors(ctx, question.ID); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// CountLearningQuestions returns the number of pending questions
func (t *Tx) CountLearningQuestions(ctx context.Context, userID int64) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count,
		t.q("SELECT COUNT(*) FROM learning_questions WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count learning questions: %w", err)
	}
	return count, nil
}

// DeleteLearningQuestion removes one answered question
func (t *Tx) DeleteLearningQuestion(ctx context.Context, questionID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		t.q("DELETE FROM learning_distractors WHERE question_id = ?"), questionID); err != nil {
		return fmt.Errorf("failed to delete learning distractors: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx,
		t.q("DELETE FROM learning_questions WHERE id = ?"), questionID); err != nil {
		return fmt.Errorf("failed to delete learning question: %w", err)
	}
	return nil
}

// DeleteLearningQuestions removes every pending question of the user
func (t *Tx) DeleteLearningQuestions(ctx context.Context, userID int64) error {
	if _, err := t.tx.ExecContext(ctx, t.q(`
		DELETE FROM learning_distractors
		WHERE question_id IN (SELECT id FROM learning_questions WHERE user_id = ?)`), userID); err != nil {
		return fmt.Errorf("failed to delete learning distractors: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx,
		t.q("DELETE FROM learning_questions WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("failed to delete learning questions: %w", err)
	}
	return nil
}

// PurgeStaleSessions removes learning questions and pending add card input
// created before cutoff. It returns the number of removed records.
func (t *Tx) PurgeStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC()
	if _, err := t.tx.ExecContext(ctx, t.q(`
		DELETE FROM learning_distractors
		WHERE question_id IN (SELECT id FROM learning_questions WHERE created_at < ?)`), cutoff); err != nil {
		return 0, fmt.Errorf("failed to purge learning distractors: %w", err)
	}

	var total int64
	for _, query := range []string{
		"DELETE FROM learning_questions WHERE created_at < ?",
		"DELETE FROM add_card_progress WHERE created_at < ?",
	} {
		res, err := t.tx.ExecContext(ctx, t.q(query), cutoff)
		if err != nil {
			return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
		}
		total += n
	}
	return total, nil
}

func (t *Tx) getDistractors(ctx context.Context, questionID int64) ([]models.Distractor, error) {
	var rows []struct {
		cardRow
		Position int `db:"position"`
	}
	err := t.tx.SelectContext(ctx, &rows, t.q(`
		SELECT d.position, `+cardColumns+`
		FROM learning_distractors d JOIN cards c ON c.id = d.card_id`+wordJoins+`
		WHERE d.question_id = ?
		ORDER BY d.position`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learning distractors: %w", err)
	}

	distractors := make([]models.Distractor, 0, len(rows))
	for _, r := range rows {
		distractors = append(distractors, models.Distractor{Position: r.Position, Card: r.toCard()})
	}
	return distractors, nil
}
