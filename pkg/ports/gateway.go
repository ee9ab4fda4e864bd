package ports

import (
	"context"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// Gateway is the outbound side of the messaging platform.
// Every method performs exactly one remote call.
type Gateway interface {
	SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.SentMessage, error)
	SendPhoto(ctx context.Context, req domain.SendPhotoRequest) (domain.SentMessage, error)
	EditMessageText(ctx context.Context, req domain.EditMessageRequest) error

	// GetCommands returns the command menu registered for the chat scope.
	GetCommands(ctx context.Context, chatID int64) ([]domain.BotCommand, error)
	// SetCommands replaces the command menu of the chat scope.
	SetCommands(ctx context.Context, chatID int64, commands []domain.BotCommand) error
	// DeleteCommands removes the command menu of the chat scope.
	DeleteCommands(ctx context.Context, chatID int64) error
	// SetMenuButton switches the chat menu button between the command list and the default.
	SetMenuButton(ctx context.Context, chatID int64, kind domain.MenuButtonKind) error
}

// EventSource is the inbound side of the messaging platform.
type EventSource interface {
	// Events streams normalized events until ctx is cancelled.
	// The channel is closed when the source stops.
	Events(ctx context.Context) (<-chan domain.Event, error)
}
