package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/pkg/assets"
	"github.com/aretw0/tinderbolt/pkg/outbound"
)

// ClearMenu removes the command menu of one chat and restores its default menu button.
// The next /start registers the menu again.
func ClearMenu(ctx context.Context, cfg *config.Config, chatID int64, logger *slog.Logger) error {
	client, err := newTelegramClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sender := outbound.NewSender(client, assets.Default(), outbound.WithSenderLogger(logger))
	if err := sender.HideMainMenu(ctx, chatID); err != nil {
		return err
	}
	logger.Info("chat menu cleared", "chat_id", chatID)
	return nil
}
