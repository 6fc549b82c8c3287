package states

import (
	"context"
	"fmt"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/quiz"
	"github.com/example/cardbot/pkg/models"
)

// Manager keeps the state handlers and moves users between them
type Manager struct {
	states map[models.UserState]State
	log    *logger.Logger
}

// NewManager creates a manager with the main menu, add card and learning
// states
func NewManager(cardMgr *cards.Manager, questions *quiz.Builder, log *logger.Logger) *Manager {
	m := &Manager{log: log.Named("states")}
	m.states = map[models.UserState]State{
		models.StateMainMenu:   &MainMenu{manager: m, log: m.log.Named("main_menu")},
		models.StateAddingCard: &AddCard{manager: m, cards: cardMgr, log: m.log.Named("add_card")},
		models.StateLearning:   &Learning{manager: m, questions: questions, log: m.log.Named("learning")},
	}
	return m
}

// Start moves the user to state, stores the change and enters the state
func (m *Manager) Start(ctx context.Context, s Store, msg *models.InputMessage, state models.UserState) (*models.OutputMessage, error) {
	handler, ok := m.states[state]
	if !ok {
		return nil, fmt.Errorf("no handler for state %q", state)
	}

	m.log.Debug("Changing user state", "user_id", msg.User.ID, "from", msg.User.State, "to", state)
	msg.User.State = state
	if err := s.UpdateUser(ctx, msg.User); err != nil {
		return nil, err
	}
	return handler.Start(ctx, s, msg)
}

// StartMainMenu moves the user to the main menu
func (m *Manager) StartMainMenu(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	return m.Start(ctx, s, msg, models.StateMainMenu)
}

// Respond passes the message to the handler of the user's current state.
// Users in a state without a handler get no reply.
func (m *Manager) Respond(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error) {
	handler, ok := m.states[msg.User.State]
	if !ok {
		m.log.Info("No handler for user state", "user_id", msg.User.ID, "state", msg.User.State)
		return nil, nil
	}
	return handler.Respond(ctx, s, msg)
}
