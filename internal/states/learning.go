package states

import (
	"context"
	"fmt"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/internal/quiz"
	"github.com/example/cardbot/pkg/models"
)

// Learning runs a learning session: one multiple choice question per card
// of the user, in random order
type Learning struct {
	manager   *Manager
	questions *quiz.Builder
	log       *logger.Logger
}

func (st *Learning) Start(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	userID := msg.User.ID

	if err := s.DeleteLearningQuestions(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.SaveLearningProgress(ctx, &models.LearningProgress{UserID: userID}); err != nil {
		return nil, err
	}

	cardCount, err := s.CountUserCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	available := cardCount
	if cardCount >= models.ChoiceCount {
		// Distractors need distinct translations
		if available, err = s.CountUserTargetWords(ctx, userID); err != nil {
			return nil, err
		}
	}
	if available < models.ChoiceCount {
		st.log.Info("Not enough cards to learn", "user_id", userID, "cards", cardCount, "available", available)
		resp, err := st.manager.StartMainMenu(ctx, s, msg)
		if err != nil {
			return nil, err
		}
		resp.AddParagraphBefore(fmt.Sprintf(messages.NoLearningCards, available, models.ChoiceCount))
		return resp, nil
	}

	plan, err := s.GetUserCardsRandom(ctx, userID)
	if err != nil {
		return nil, err
	}
	for order, card := range plan {
		q, err := st.questions.Question(ctx, s, userID, order, card)
		if err != nil {
			return nil, err
		}
		if err := s.AddLearningQuestion(ctx, q); err != nil {
			return nil, err
		}
	}
	st.log.Info("Started learning session", "user_id", userID, "questions", len(plan))

	resp, err := st.show(ctx, s, msg, nil)
	if err != nil {
		return nil, err
	}
	resp.AddParagraphBefore(fmt.Sprintf(messages.PlanLearningCount, len(plan)))
	return resp, nil
}

func (st *Learning) Respond(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	userID := msg.User.ID

	q, err := s.GetNextLearningQuestion(ctx, userID)
	if err != nil {
		return nil, err
	}
	if q == nil || msg.Text == messages.LearningFinish {
		return st.finish(ctx, s, msg)
	}

	progress, err := st.progress(ctx, s, userID)
	if err != nil {
		return nil, err
	}

	source, target := q.Card.Source.Text, q.Card.Target.Text
	var feedback string
	var repeat *models.LearningQuestion

	switch {
	case cards.Normalize(msg.Text) == target:
		st.log.Info("Correct answer", "user_id", userID, "card_id", q.Card.ID)
		progress.Succeeded++
		feedback = fmt.Sprintf(messages.CorrectTranslation, source, target)
		err = s.DeleteLearningQuestion(ctx, q.ID)
	case msg.Text == messages.LearningSkip:
		progress.Skipped++
		feedback = messages.SkippedTranslation
		err = s.DeleteLearningQuestion(ctx, q.ID)
	case msg.Text == messages.LearningDelete:
		st.log.Info("Removing card from collection", "user_id", userID, "card_id", q.Card.ID)
		feedback = fmt.Sprintf(messages.DeletedCard, source, target)
		if err = s.DeleteLearningQuestion(ctx, q.ID); err == nil {
			_, err = s.RemoveUserCard(ctx, userID, q.Card.ID)
		}
	default:
		st.log.Info("Wrong answer", "user_id", userID, "card_id", q.Card.ID, "text", msg.Text)
		progress.Failed++
		feedback = messages.WrongTranslation
		repeat = q
	}
	if err != nil {
		return nil, err
	}
	if err := s.SaveLearningProgress(ctx, progress); err != nil {
		return nil, err
	}

	resp, err := st.show(ctx, s, msg, repeat)
	if err != nil {
		return nil, err
	}
	resp.AddParagraphBefore(feedback)
	return resp, nil
}

// show presents q, or the next stored question when q is nil. Without
// questions left the session finishes.
func (st *Learning) show(ctx context.Context, s Store, msg *models.InputMessage, q *models.LearningQuestion) (*models.OutputMessage, error) {
	if q == nil {
		var err error
		if q, err = s.GetNextLearningQuestion(ctx, msg.User.ID); err != nil {
			return nil, err
		}
	}
	if q == nil {
		return st.finish(ctx, s, msg)
	}

	st.log.Debug("Showing question", "user_id", msg.User.ID, "question_id", q.ID, "order", q.Order)
	return &models.OutputMessage{
		User:     msg.User,
		Text:     fmt.Sprintf(messages.SelectTranslation, q.Card.Source.Text),
		Keyboard: quiz.Keyboard(q),
	}, nil
}

func (st *Learning) finish(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	if err := s.DeleteLearningQuestions(ctx, msg.User.ID); err != nil {
		return nil, err
	}
	progress, err := st.progress(ctx, s, msg.User.ID)
	if err != nil {
		return nil, err
	}
	st.log.Info("Finished learning session", "user_id", msg.User.ID,
		"succeeded", progress.Succeeded, "skipped", progress.Skipped, "failed", progress.Failed)

	resp, err := st.manager.StartMainMenu(ctx, s, msg)
	if err != nil {
		return nil, err
	}
	resp.AddParagraphBefore(fmt.Sprintf(messages.FinishedLearning, progress.Succeeded, progress.Skipped, progress.Failed))
	return resp, nil
}

func (st *Learning) progress(ctx context.Context, s Store, userID int64) (*models.LearningProgress, error) {
	progress, err := s.GetLearningProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.LearningProgress{UserID: userID}
	}
	return progress, nil
}
