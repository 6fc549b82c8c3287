// Package states implements the dialogue states of the bot and the manager
// that routes user input between them.
package states

import (
	"context"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/quiz"
	"github.com/example/cardbot/pkg/models"
)

// State handles user input while the user is in one dialogue state.
// A nil message with a nil error means no reply.
type State interface {
	// Start enters the state and returns the first message of it
	Start(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error)
	// Respond handles one text message of a user in this state
	Respond(ctx context.Context, s Store, msg *models.InputMessage) (*models.OutputMessage, error)
}

// Store is the storage used within one turn
type Store interface {
	cards.Store
	quiz.CardSource

	UpdateUser(ctx context.Context, user *models.User) error

	CountUserCards(ctx context.Context, userID int64) (int, error)
	CountUserTargetWords(ctx context.Context, userID int64) (int, error)
	GetUserCardsRandom(ctx context.Context, userID int64) ([]models.Card, error)
	RemoveUserCard(ctx context.Context, userID, cardID int64) (bool, error)

	GetAddCardProgress(ctx context.Context, userID int64) (*models.AddCardProgress, error)
	SetAddCardProgress(ctx context.Context, userID int64, source models.Word) error
	DeleteAddCardProgress(ctx context.Context, userID int64) error

	AddLearningQuestion(ctx context.Context, q *models.LearningQuestion) error
	GetNextLearningQuestion(ctx context.Context, userID int64) (*models.LearningQuestion, error)
	DeleteLearningQuestion(ctx context.Context, questionID int64) error
	DeleteLearningQuestions(ctx context.Context, userID int64) error

	GetLearningProgress(ctx context.Context, userID int64) (*models.LearningProgress, error)
	SaveLearningProgress(ctx context.Context, progress *models.LearningProgress) error
}

func reply(msg *models.InputMessage, text string) *models.OutputMessage {
	return &models.OutputMessage{User: msg.User, Text: text}
}
