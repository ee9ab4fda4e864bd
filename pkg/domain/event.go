package domain

import "strings"

// EventKind tells the router how to read an inbound event.
type EventKind string

const (
	EventCommand  EventKind = "command"  // Text starting with the command marker
	EventText     EventKind = "text"     // Free-form text
	EventCallback EventKind = "callback" // Inline button press
)

// Event is one inbound update from the messaging gateway, already normalized.
// It is passed explicitly through the router and every mode handler.
type Event struct {
	UpdateID   int64     `json:"update_id"`
	Kind       EventKind `json:"kind"`
	UserID     int64     `json:"user_id"`
	ChatID     int64     `json:"chat_id"`
	MessageID  int64     `json:"message_id,omitempty"`
	Text       string    `json:"text,omitempty"`
	Command    string    `json:"command,omitempty"`
	Data       string    `json:"data,omitempty"`
	CallbackID string    `json:"callback_id,omitempty"`
}

// IsCommand reports whether the event is a command message.
func (e Event) IsCommand() bool {
	return e.Kind == EventCommand
}

// IsCallback reports whether the event is a button press.
func (e Event) IsCallback() bool {
	return e.Kind == EventCallback
}

// ButtonKey returns the callback payload, or "" for non-callback events.
func (e Event) ButtonKey() string {
	if e.Kind != EventCallback {
		return ""
	}
	return e.Data
}

// NewTextEvent classifies a raw message text as a command or free text.
// A command starts with "/"; the token drops the marker, any "@botname" suffix and arguments.
func NewTextEvent(updateID, userID, chatID, messageID int64, text string) Event {
	ev := Event{
		UpdateID:  updateID,
		Kind:      EventText,
		UserID:    userID,
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if token, ok := ParseCommand(text); ok {
		ev.Kind = EventCommand
		ev.Command = token
	}
	return ev
}

// NewCallbackEvent builds a button-press event.
func NewCallbackEvent(updateID, userID, chatID, messageID int64, callbackID, data string) Event {
	return Event{
		UpdateID:   updateID,
		Kind:       EventCallback,
		UserID:     userID,
		ChatID:     chatID,
		MessageID:  messageID,
		Data:       data,
		CallbackID: callbackID,
	}
}

// ParseCommand extracts the command token from text such as "/profile@bolt_bot now".
func ParseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") || len(text) < 2 {
		return "", false
	}
	token := text[1:]
	if i := strings.IndexAny(token, " \t\n"); i >= 0 {
		token = token[:i]
	}
	if i := strings.IndexByte(token, '@'); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return "", false
	}
	return strings.ToLower(token), true
}
