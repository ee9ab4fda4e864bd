// Package outbound turns dialog intents into gateway requests.
//
// The builders in this file are pure; Sender executes their output against a
// ports.Gateway.
package outbound

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// MarkdownDelimiter is the character whose count decides whether a text is safe to send as markdown.
const MarkdownDelimiter = '_'

// ErrOddPairs is returned when an interleaved label/value list has a dangling label.
var ErrOddPairs = errors.New("interleaved list must have an even number of items")

// BalancedMarkdown reports whether text has an even number of markdown delimiters.
// It is a heuristic, not a markdown validator.
func BalancedMarkdown(text string) bool {
	return strings.Count(text, string(MarkdownDelimiter))%2 == 0
}

// Text builds a markdown send. An unbalanced text is not sent as-is:
// an HTML warning quoting it is sent instead.
func Text(chatID int64, text string) domain.SendMessageRequest {
	if !BalancedMarkdown(text) {
		return HTML(chatID, InvalidMarkdownNotice(text))
	}
	return domain.SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: domain.ParseMarkdown,
	}
}

// InvalidMarkdownNotice is the HTML body sent in place of an unbalanced markdown text.
func InvalidMarkdownNotice(text string) string {
	return fmt.Sprintf("String '%s' is invalid markdown. Send it as HTML instead.", html.EscapeString(text))
}

// HTML builds an HTML-formatted send.
func HTML(chatID int64, text string) domain.SendMessageRequest {
	return domain.SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: domain.ParseHTML,
	}
}

// Buttons builds a markdown send with inline buttons from interleaved label/value pairs.
// Each pair becomes its own single-button row.
func Buttons(chatID int64, text string, pairs ...string) (domain.SendMessageRequest, error) {
	if len(pairs)%2 != 0 {
		return domain.SendMessageRequest{}, ErrOddPairs
	}
	req := domain.SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: domain.ParseMarkdown,
	}
	for i := 0; i < len(pairs); i += 2 {
		req.Buttons = append(req.Buttons, []domain.Button{{Label: pairs[i], Value: pairs[i+1]}})
	}
	return req, nil
}

// Photo builds an image send. The caption is optional.
func Photo(chatID int64, key string, image []byte, caption string) domain.SendPhotoRequest {
	return domain.SendPhotoRequest{
		ChatID:   chatID,
		Filename: key + ".jpg",
		Image:    image,
		Caption:  caption,
	}
}

// Edit builds an in-place text replacement of a previously sent message.
func Edit(msg domain.SentMessage, text string) domain.EditMessageRequest {
	return domain.EditMessageRequest{
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		Text:      text,
	}
}

// Commands builds a command menu from interleaved description/command pairs.
// A leading "/" on the command is dropped.
func Commands(pairs ...string) ([]domain.BotCommand, error) {
	if len(pairs)%2 != 0 {
		return nil, ErrOddPairs
	}
	cmds := make([]domain.BotCommand, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		cmds = append(cmds, domain.BotCommand{
			Command:     strings.TrimPrefix(pairs[i+1], "/"),
			Description: pairs[i],
		})
	}
	return cmds, nil
}

// SameCommands reports whether two menus are identical, order included.
func SameCommands(a, b []domain.BotCommand) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
