// Package controller is the entry point for every message from a user.
// Each call is one turn: it runs in a single transaction and always
// produces the reply to send, or nil for no reply.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/database"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/internal/quiz"
	"github.com/example/cardbot/internal/states"
	"github.com/example/cardbot/pkg/models"
)

// Transactor runs a unit of work
type Transactor interface {
	RunInTransaction(ctx context.Context, fn database.TxFn) error
}

// Controller handles commands and free text of users
type Controller struct {
	db           Transactor
	cards        *cards.Manager
	states       *states.Manager
	defaultCards []models.CardPair
	log          *logger.Logger

	// one turn at a time
	mu sync.Mutex
}

// New creates a controller. New users get a card for every pair of
// defaultCards.
func New(db Transactor, defaultCards []models.CardPair, log *logger.Logger) *Controller {
	cardMgr := cards.NewManager(log)
	return &Controller{
		db:           db,
		cards:        cardMgr,
		states:       states.NewManager(cardMgr, quiz.NewBuilder(log), log),
		defaultCards: defaultCards,
		log:          log.Named("controller"),
	}
}

type turnFn func(ctx context.Context, tx *database.Tx, log *logger.Logger) (*models.OutputMessage, error)

// turn runs fn in a transaction. On error the transaction is rolled back
// and the user gets the generic error text.
func (c *Controller) turn(ctx context.Context, name string, msg *models.InputMessage, fn turnFn) *models.OutputMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.log.With("turn_id", uuid.NewString(), "turn", name, "user_id", msg.User.ID)
	start := time.Now()

	var resp *models.OutputMessage
	err := c.db.RunInTransaction(ctx, func(ctx context.Context, tx *database.Tx) error {
		var err error
		resp, err = fn(ctx, tx, log)
		return err
	})
	if err != nil {
		log.Error("Turn failed", "error", err, "duration", time.Since(start))
		return &models.OutputMessage{User: msg.User, Text: messages.BotError}
	}

	log.Debug("Turn completed", "duration", time.Since(start), "reply", resp != nil)
	return resp
}

// Start registers a new user or refreshes a known one and shows the main
// menu with a greeting
func (c *Controller) Start(ctx context.Context, msg *models.InputMessage) *models.OutputMessage {
	return c.turn(ctx, "start", msg, func(ctx context.Context, tx *database.Tx, log *logger.Logger) (*models.OutputMessage, error) {
		log.Info("Greeting user", "user", msg.User.DisplayName())
		if err := c.bootstrap(ctx, tx, msg, log); err != nil {
			return nil, err
		}

		greeting := messages.GreetingOldUser
		if msg.User.State == models.StateNewUser {
			greeting = messages.GreetingNewUser
		}

		resp, err := c.states.StartMainMenu(ctx, tx, msg)
		if err != nil {
			return nil, err
		}
		resp.AddParagraphBefore(fmt.Sprintf(greeting, msg.User.DisplayName()))
		return resp, nil
	})
}

// Clear erases everything stored for the user
func (c *Controller) Clear(ctx context.Context, msg *models.InputMessage) *models.OutputMessage {
	return c.turn(ctx, "clear", msg, func(ctx context.Context, tx *database.Tx, log *logger.Logger) (*models.OutputMessage, error) {
		deleted, err := tx.DeleteUser(ctx, msg.User.ID)
		if err != nil {
			return nil, err
		}
		log.Info("Erased user data", "existed", deleted)

		template := messages.DeletedNotExisting
		if deleted {
			template = messages.DeletedUser
		}
		return &models.OutputMessage{User: msg.User, Text: fmt.Sprintf(template, msg.User.DisplayName())}, nil
	})
}

// Help returns the command list. The keyboard shown to the user stays.
func (c *Controller) Help(_ context.Context, msg *models.InputMessage) *models.OutputMessage {
	c.log.Debug("Showing help", "user_id", msg.User.ID)
	return &models.OutputMessage{User: msg.User, Text: messages.Help, KeepKeyboard: true}
}

// Respond passes free text of a known user to the user's current state
func (c *Controller) Respond(ctx context.Context, msg *models.InputMessage) *models.OutputMessage {
	return c.turn(ctx, "respond", msg, func(ctx context.Context, tx *database.Tx, log *logger.Logger) (*models.OutputMessage, error) {
		existing, err := tx.GetUser(ctx, msg.User.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			log.Info("Message from user who has not started")
			return &models.OutputMessage{User: msg.User, Text: messages.UserNotStarted}, nil
		}
		if err := c.refresh(ctx, tx, msg, existing); err != nil {
			return nil, err
		}
		log.Debug("Responding", "state", msg.User.State, "text", msg.Text)
		return c.states.Respond(ctx, tx, msg)
	})
}

// PurgeStaleSessions removes learning questions and pending card input
// older than maxAge
func (c *Controller) PurgeStaleSessions(ctx context.Context, maxAge time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var purged int64
	err := c.db.RunInTransaction(ctx, func(ctx context.Context, tx *database.Tx) error {
		var err error
		purged, err = tx.PurgeStaleSessions(ctx, time.Now().Add(-maxAge))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
	}
	if purged > 0 {
		c.log.Info("Purged stale session records", "count", purged, "max_age", maxAge)
	}
	return purged, nil
}

// bootstrap loads the user's state into msg.User, creating the user with
// the default cards on first contact
func (c *Controller) bootstrap(ctx context.Context, tx *database.Tx, msg *models.InputMessage, log *logger.Logger) error {
	existing, err := tx.GetUser(ctx, msg.User.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return c.refresh(ctx, tx, msg, existing)
	}

	log.Info("New user", "user", msg.User.DisplayName())
	msg.User.State = models.StateNewUser
	if err := tx.AddUser(ctx, msg.User); err != nil {
		return err
	}
	added, err := c.cards.SeedDefaultCards(ctx, tx, msg.User.ID, c.defaultCards)
	if err != nil {
		return err
	}
	log.Debug("Added default cards", "count", added)
	return nil
}

// refresh keeps the stored state and saves profile fields that may have
// changed since the last message
func (c *Controller) refresh(ctx context.Context, tx *database.Tx, msg *models.InputMessage, existing *models.User) error {
	msg.User.State = existing.State
	return tx.UpdateUser(ctx, msg.User)
}
