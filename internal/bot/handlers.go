package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/cardbot/pkg/models"
)

// dispatch routes known commands to their handlers and everything else,
// unknown commands included, to Respond
func (b *Bot) dispatch(ctx context.Context, message *tgbotapi.Message) *models.OutputMessage {
	input := toInput(message)
	log := b.log.With("user_id", input.User.ID)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			log.Debug("Handling command", "command", "start")
			return b.handler.Start(ctx, input)
		case "clear":
			log.Debug("Handling command", "command", "clear")
			return b.handler.Clear(ctx, input)
		case "help":
			log.Debug("Handling command", "command", "help")
			return b.handler.Help(ctx, input)
		}
	}
	return b.handler.Respond(ctx, input)
}

func toInput(message *tgbotapi.Message) *models.InputMessage {
	return &models.InputMessage{
		User: toUser(message.From),
		Text: message.Text,
	}
}

func toUser(from *tgbotapi.User) *models.User {
	return &models.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		State:     models.StateUnknown,
	}
}
