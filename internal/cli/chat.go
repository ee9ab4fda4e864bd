package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/tinderbolt"
	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/internal/console"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// Chat runs a single local session on in/out until EOF or ctx is done.
// The session opens with /start; a line holding a button number presses it.
func Chat(ctx context.Context, cfg *config.Config, completer ports.Completer, in io.Reader, out io.Writer, logger *slog.Logger, opts ...console.Option) error {
	botOpts, closeRedis, err := botOptions(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	term := console.New(in, out, opts...)
	term.Banner(tinderbolt.Version)
	// One worker keeps replies in input order.
	botOpts = append(botOpts, tinderbolt.WithWorkers(1))
	bot, err := tinderbolt.New(term, completer, botOpts...)
	if err != nil {
		return err
	}

	start := domain.NewTextEvent(0, console.UserID, console.UserID, 0, "/start")
	if err := bot.Handle(ctx, start); err != nil {
		return err
	}
	return handleExecutionError(bot.Run(ctx, term))
}
