package telegram

import (
	"context"
	"errors"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ ports.Gateway = (*Client)(nil)

// SendMessage implements ports.Gateway.
func (c *Client) SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.SentMessage, error) {
	msg := tgbotapi.NewMessage(req.ChatID, req.Text)
	msg.ParseMode = string(req.ParseMode)
	if len(req.Buttons) > 0 {
		msg.ReplyMarkup = keyboard(req.Buttons)
	}
	m, err := c.api(ctx).Send(msg)
	if err != nil {
		return domain.SentMessage{}, wrap("sendMessage", err)
	}
	return sent(m), nil
}

// SendPhoto implements ports.Gateway. The image is uploaded as multipart form data.
func (c *Client) SendPhoto(ctx context.Context, req domain.SendPhotoRequest) (domain.SentMessage, error) {
	photo := tgbotapi.NewPhoto(req.ChatID, tgbotapi.FileBytes{Name: req.Filename, Bytes: req.Image})
	photo.Caption = req.Caption
	m, err := c.api(ctx).Send(photo)
	if err != nil {
		return domain.SentMessage{}, wrap("sendPhoto", err)
	}
	return sent(m), nil
}

// EditMessageText implements ports.Gateway.
// An edit to identical text is not an error.
func (c *Client) EditMessageText(ctx context.Context, req domain.EditMessageRequest) error {
	_, err := c.api(ctx).Request(tgbotapi.NewEditMessageText(req.ChatID, int(req.MessageID), req.Text))
	err = wrap("editMessageText", err)
	if errors.Is(err, ErrMessageNotModified) {
		return nil
	}
	return err
}

// GetCommands implements ports.Gateway with a chat-scoped command list.
func (c *Client) GetCommands(ctx context.Context, chatID int64) ([]domain.BotCommand, error) {
	cmds, err := c.api(ctx).GetMyCommandsWithConfig(
		tgbotapi.NewGetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID)))
	if err != nil {
		return nil, wrap("getMyCommands", err)
	}
	out := make([]domain.BotCommand, len(cmds))
	for i, cmd := range cmds {
		out[i] = domain.BotCommand{Command: cmd.Command, Description: cmd.Description}
	}
	return out, nil
}

// SetCommands implements ports.Gateway.
func (c *Client) SetCommands(ctx context.Context, chatID int64, commands []domain.BotCommand) error {
	cmds := make([]tgbotapi.BotCommand, len(commands))
	for i, cmd := range commands {
		cmds[i] = tgbotapi.BotCommand{Command: cmd.Command, Description: cmd.Description}
	}
	_, err := c.api(ctx).Request(tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID), cmds...))
	return wrap("setMyCommands", err)
}

// DeleteCommands implements ports.Gateway.
func (c *Client) DeleteCommands(ctx context.Context, chatID int64) error {
	_, err := c.api(ctx).Request(tgbotapi.NewDeleteMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID)))
	return wrap("deleteMyCommands", err)
}

// SetMenuButton implements ports.Gateway.
// The SDK has no typed config for setChatMenuButton, so the call goes through MakeRequest.
func (c *Client) SetMenuButton(ctx context.Context, chatID int64, kind domain.MenuButtonKind) error {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	if err := params.AddInterface("menu_button", map[string]string{"type": string(kind)}); err != nil {
		return wrap("setChatMenuButton", err)
	}
	_, err := c.api(ctx).MakeRequest("setChatMenuButton", params)
	return wrap("setChatMenuButton", err)
}

func sent(m tgbotapi.Message) domain.SentMessage {
	out := domain.SentMessage{MessageID: int64(m.MessageID)}
	if m.Chat != nil {
		out.ChatID = m.Chat.ID
	}
	return out
}

// keyboard lays buttons out as inline keyboard rows.
func keyboard(rows [][]domain.Button) tgbotapi.InlineKeyboardMarkup {
	kb := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		for _, b := range row {
			kb[i] = append(kb[i], tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Value))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(kb...)
}
