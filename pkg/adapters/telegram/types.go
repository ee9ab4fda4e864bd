package telegram

import (
	"github.com/aretw0/tinderbolt/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventOf normalizes an SDK update. Updates the bot does not handle report false.
func EventOf(u tgbotapi.Update) (domain.Event, bool) {
	updateID := int64(u.UpdateID)
	switch {
	case u.Message != nil:
		m := u.Message
		var chatID int64
		if m.Chat != nil {
			chatID = m.Chat.ID
		}
		userID := chatID
		if m.From != nil {
			userID = m.From.ID
		}
		text := m.Text
		if text == "" {
			text = m.Caption
		}
		return domain.NewTextEvent(updateID, userID, chatID, int64(m.MessageID), text), true

	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		var userID int64
		if q.From != nil {
			userID = q.From.ID
		}
		chatID := userID
		var messageID int64
		if q.Message != nil {
			if q.Message.Chat != nil {
				chatID = q.Message.Chat.ID
			}
			messageID = int64(q.Message.MessageID)
		}
		return domain.NewCallbackEvent(updateID, userID, chatID, messageID, q.ID, q.Data), true
	}
	return domain.Event{}, false
}
