package states

import (
	"context"

	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/pkg/models"
)

var menuStates = map[string]models.UserState{
	messages.MenuLearn:   models.StateLearning,
	messages.MenuAddCard: models.StateAddingCard,
}

// MainMenu shows the menu and starts the selected state
type MainMenu struct {
	manager *Manager
	log     *logger.Logger
}

func (st *MainMenu) Start(_ context.Context, _ Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	buttons := make([]string, len(messages.MainMenu))
	copy(buttons, messages.MainMenu)
	return &models.OutputMessage{
		User:     msg.User,
		Text:     messages.SelectMainMenu,
		Keyboard: &models.Keyboard{RowWidth: 1, Buttons: buttons},
	}, nil
}

func (st *MainMenu) Respond(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	state, ok := menuStates[msg.Text]
	if !ok {
		st.log.Info("Unknown main menu option", "user_id", msg.User.ID, "text", msg.Text)
		return nil, nil
	}
	st.log.Info("Main menu option selected", "user_id", msg.User.ID, "option", msg.Text)
	return st.manager.Start(ctx, s, msg, state)
}
