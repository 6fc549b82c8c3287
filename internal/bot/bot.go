// Package bot connects the controller to the Telegram Bot API
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/pkg/models"
)

// Handler produces replies to user messages. A nil reply means nothing is
// sent.
type Handler interface {
	Start(ctx context.Context, msg *models.InputMessage) *models.OutputMessage
	Clear(ctx context.Context, msg *models.InputMessage) *models.OutputMessage
	Help(ctx context.Context, msg *models.InputMessage) *models.OutputMessage
	Respond(ctx context.Context, msg *models.InputMessage) *models.OutputMessage
}

// Bot represents the Telegram bot application
type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	config  Config
	log     *logger.Logger
}

// New creates a bot and checks the token against the Bot API
func New(token string, config Config, handler Handler, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = config.Debug

	b := &Bot{api: api, handler: handler, config: config, log: log.Named("bot")}
	b.log.Info("Authorized on account", "username", api.Self.UserName)
	return b, nil
}

// Start receives updates until ctx is cancelled. Updates are handled one
// at a time in the order they arrive.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	b.log.Info("Receiving updates")

	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.log.Info("Stopped receiving updates")
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	reply := b.dispatch(ctx, message)
	if reply == nil {
		return
	}
	if err := b.send(message, reply); err != nil {
		b.log.Error("Failed to send message", "user_id", message.From.ID, "error", err)
	}
}

func (b *Bot) send(to *tgbotapi.Message, reply *models.OutputMessage) error {
	msg := tgbotapi.NewMessage(to.Chat.ID, reply.Text)
	msg.ReplyToMessageID = to.MessageID
	if markup := replyMarkup(reply); markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.api.Send(msg)
	return err
}

// replyMarkup converts the reply keyboard. It returns nil when the current
// keyboard should stay.
func replyMarkup(reply *models.OutputMessage) interface{} {
	if reply.Keyboard != nil {
		return keyboardMarkup(reply.Keyboard)
	}
	if reply.KeepKeyboard {
		return nil
	}
	return tgbotapi.NewRemoveKeyboard(true)
}

// keyboardMarkup lays buttons out in rows of RowWidth
func keyboardMarkup(kb *models.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	width := kb.RowWidth
	if width < 1 {
		width = 1
	}

	var rows [][]tgbotapi.KeyboardButton
	for start := 0; start < len(kb.Buttons); start += width {
		end := start + width
		if end > len(kb.Buttons) {
			end = len(kb.Buttons)
		}
		row := make([]tgbotapi.KeyboardButton, 0, end-start)
		for _, label := range kb.Buttons[start:end] {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}
