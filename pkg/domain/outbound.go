package domain

// ParseMode selects the markup dialect of an outbound text.
type ParseMode string

const (
	ParseMarkdown ParseMode = "Markdown"
	ParseHTML     ParseMode = "HTML"
)

// Button is one inline button: the label shown and the opaque value sent back on press.
type Button struct {
	Label string `json:"text"`
	Value string `json:"callback_data"`
}

// SendMessageRequest sends text to a chat, optionally with inline buttons.
// Buttons is a list of rows.
type SendMessageRequest struct {
	ChatID    int64
	Text      string
	ParseMode ParseMode
	Buttons   [][]Button
}

// SendPhotoRequest sends an image with an optional caption.
type SendPhotoRequest struct {
	ChatID   int64
	Filename string
	Image    []byte
	Caption  string
}

// EditMessageRequest replaces the text of a message sent earlier.
type EditMessageRequest struct {
	ChatID    int64
	MessageID int64
	Text      string
}

// SentMessage identifies a message accepted by the gateway.
type SentMessage struct {
	ChatID    int64
	MessageID int64
}

// BotCommand is one entry of the chat command menu.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// MenuButtonKind selects what the chat menu button shows.
type MenuButtonKind string

const (
	MenuButtonCommands MenuButtonKind = "commands"
	MenuButtonDefault  MenuButtonKind = "default"
)
