package states

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/pkg/models"
)

// AddCard collects a source word and then its translation
type AddCard struct {
	manager *Manager
	cards   *cards.Manager
	log     *logger.Logger
}

func (st *AddCard) Start(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	if err := s.DeleteAddCardProgress(ctx, msg.User.ID); err != nil {
		return nil, err
	}
	return reply(msg, messages.EnterSourceWord), nil
}

func (st *AddCard) Respond(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	progress, err := s.GetAddCardProgress(ctx, msg.User.ID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return st.sourceWord(ctx, s, msg)
	}
	return st.targetWord(ctx, s, msg, progress)
}

func (st *AddCard) sourceWord(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	word, err := st.cards.AddSourceWord(ctx, s, msg.Text)
	if warning, ok := validationWarning(err); ok {
		st.log.Info("Rejected source word", "user_id", msg.User.ID, "error", err)
		resp := reply(msg, messages.EnterSourceWord)
		resp.AddParagraphBefore(warning)
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.SetAddCardProgress(ctx, msg.User.ID, word); err != nil {
		return nil, err
	}
	st.log.Debug("Saved source word", "user_id", msg.User.ID, "word", word.Text)
	return reply(msg, messages.EnterTargetWord), nil
}

func (st *AddCard) targetWord(ctx context.Context, s Store, msg *models.InputMessage, progress *models.AddCardProgress) (*models.OutputMessage, error) {
	card, err := st.cards.AddCard(ctx, s, progress.SourceWord, msg.Text)
	if warning, ok := validationWarning(err); ok {
		st.log.Info("Rejected target word", "user_id", msg.User.ID, "error", err)
		resp := reply(msg, messages.EnterTargetWord)
		resp.AddParagraphBefore(warning)
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.AddUserCard(ctx, msg.User.ID, card.ID); err != nil {
		return nil, err
	}
	if err := s.DeleteAddCardProgress(ctx, msg.User.ID); err != nil {
		return nil, err
	}
	st.log.Info("Added card", "user_id", msg.User.ID, "source", card.Source.Text, "target", card.Target.Text)

	count, err := s.CountUserCards(ctx, msg.User.ID)
	if err != nil {
		return nil, err
	}

	resp, err := st.manager.StartMainMenu(ctx, s, msg)
	if err != nil {
		return nil, err
	}
	resp.AddParagraphBefore(fmt.Sprintf(messages.NewLearningCount, count))
	resp.AddParagraphBefore(fmt.Sprintf(messages.AddedCard, card.Source.Text, card.Target.Text))
	return resp, nil
}

// validationWarning returns the user text for a rejected word
func validationWarning(err error) (string, bool) {
	switch {
	case errors.Is(err, cards.ErrWordTooLong):
		return fmt.Sprintf(messages.WordTooLong, cards.MaxWordLength), true
	case errors.Is(err, cards.ErrEmptyWord):
		return messages.WordEmpty, true
	}
	return "", false
}
