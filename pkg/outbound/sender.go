package outbound

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// Sender executes built requests against the gateway.
// Gateway failures are wrapped in domain.ErrGateway; asset failures are returned as-is.
type Sender struct {
	gateway ports.Gateway
	assets  ports.AssetLoader
	logger  *slog.Logger
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithSenderLogger configures the logger used for fallback notices.
func WithSenderLogger(logger *slog.Logger) SenderOption {
	return func(s *Sender) {
		s.logger = logger
	}
}

// NewSender creates a Sender.
func NewSender(gateway ports.Gateway, assets ports.AssetLoader, opts ...SenderOption) *Sender {
	s := &Sender{
		gateway: gateway,
		assets:  assets,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendText sends markdown text, falling back to an HTML warning when delimiters are unbalanced.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) (domain.SentMessage, error) {
	if !BalancedMarkdown(text) {
		s.logger.Warn("unbalanced markdown, sending HTML notice", "chat_id", chatID)
	}
	return s.send(ctx, Text(chatID, text))
}

// SendHTML sends HTML text.
func (s *Sender) SendHTML(ctx context.Context, chatID int64, text string) (domain.SentMessage, error) {
	return s.send(ctx, HTML(chatID, text))
}

// SendButtons sends text with one button per row from interleaved label/value pairs.
func (s *Sender) SendButtons(ctx context.Context, chatID int64, text string, pairs ...string) (domain.SentMessage, error) {
	req, err := Buttons(chatID, text, pairs...)
	if err != nil {
		return domain.SentMessage{}, err
	}
	return s.send(ctx, req)
}

// SendPhoto sends the image stored under key.
func (s *Sender) SendPhoto(ctx context.Context, chatID int64, key string) (domain.SentMessage, error) {
	return s.SendPhotoText(ctx, chatID, key, "")
}

// SendPhotoText sends the image stored under key with a caption.
func (s *Sender) SendPhotoText(ctx context.Context, chatID int64, key, caption string) (domain.SentMessage, error) {
	image, err := s.assets.LoadImage(key)
	if err != nil {
		return domain.SentMessage{}, err
	}
	msg, err := s.gateway.SendPhoto(ctx, Photo(chatID, key, image, caption))
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("%w: send photo %q: %w", domain.ErrGateway, key, err)
	}
	return msg, nil
}

// EditText replaces the text of msg.
func (s *Sender) EditText(ctx context.Context, msg domain.SentMessage, text string) error {
	if err := s.gateway.EditMessageText(ctx, Edit(msg, text)); err != nil {
		return fmt.Errorf("%w: edit message: %w", domain.ErrGateway, err)
	}
	return nil
}

// ShowMainMenu registers the chat command menu from interleaved description/command pairs
// and shows the menu button. Nothing is sent when the chat already has the same menu.
func (s *Sender) ShowMainMenu(ctx context.Context, chatID int64, pairs ...string) error {
	cmds, err := Commands(pairs...)
	if err != nil {
		return err
	}

	current, err := s.gateway.GetCommands(ctx, chatID)
	if err != nil {
		return fmt.Errorf("%w: get commands: %w", domain.ErrGateway, err)
	}
	if SameCommands(current, cmds) {
		return nil
	}

	if err := s.gateway.SetCommands(ctx, chatID, cmds); err != nil {
		return fmt.Errorf("%w: set commands: %w", domain.ErrGateway, err)
	}
	if err := s.gateway.SetMenuButton(ctx, chatID, domain.MenuButtonCommands); err != nil {
		return fmt.Errorf("%w: set menu button: %w", domain.ErrGateway, err)
	}
	return nil
}

// HideMainMenu deletes the chat command menu and restores the default menu button.
func (s *Sender) HideMainMenu(ctx context.Context, chatID int64) error {
	if err := s.gateway.DeleteCommands(ctx, chatID); err != nil {
		return fmt.Errorf("%w: delete commands: %w", domain.ErrGateway, err)
	}
	if err := s.gateway.SetMenuButton(ctx, chatID, domain.MenuButtonDefault); err != nil {
		return fmt.Errorf("%w: set menu button: %w", domain.ErrGateway, err)
	}
	return nil
}

func (s *Sender) send(ctx context.Context, req domain.SendMessageRequest) (domain.SentMessage, error) {
	msg, err := s.gateway.SendMessage(ctx, req)
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("%w: send message: %w", domain.ErrGateway, err)
	}
	return msg, nil
}
