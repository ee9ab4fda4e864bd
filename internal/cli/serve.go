package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tinderbolt"
	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/internal/server"
	"github.com/aretw0/tinderbolt/pkg/adapters/telegram"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight HTTP requests may run after a stop signal.
const ShutdownTimeout = 5 * time.Second

// Serve runs the bot against Telegram until ctx is done.
// The HTTP surface (health, metrics, sessions, and the webhook in webhook mode) runs alongside.
func Serve(ctx context.Context, cfg *config.Config, completer ports.Completer, logger *slog.Logger) error {
	client, err := newTelegramClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	me := client.Self()
	if cfg.Telegram.BotName != "" && cfg.Telegram.BotName != me.UserName {
		logger.Warn("configured bot name differs from token owner", "configured", cfg.Telegram.BotName, "actual", me.UserName)
	}

	opts, closeRedis, err := botOptions(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRedis(); err != nil {
			logger.Warn("close redis", "err", err)
		}
	}()

	bot, err := tinderbolt.New(client, completer, opts...)
	if err != nil {
		return err
	}

	var (
		source  ports.EventSource
		webhook http.Handler
	)
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		wh := telegram.NewWebhook(client, cfg.Telegram.WebhookSecret, logger)
		if err := client.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return fmt.Errorf("register webhook: %w", err)
		}
		source, webhook = wh, wh
	default:
		source = telegram.NewPoller(client,
			telegram.WithPollTimeout(cfg.Telegram.PollTimeout),
			telegram.WithPollerLogger(logger),
		)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.NewHandler(server.Options{
			Sessions: bot.Sessions(),
			Webhook:  webhook,
			Metrics:  bot.Metrics().Handler(),
			Redact:   cfg.Server.RedactSessions,
			Logger:   logger,
		}),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		logger.Info("bot started", "bot", me.UserName, "mode", cfg.Telegram.Mode)
		return handleExecutionError(bot.Run(ctx, source))
	})

	return g.Wait()
}

func newTelegramClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*telegram.Client, error) {
	opts := []telegram.Option{telegram.WithLogger(logger)}
	if cfg.Telegram.BaseURL != "" {
		opts = append(opts, telegram.WithBaseURL(cfg.Telegram.BaseURL))
	}
	client, err := telegram.New(ctx, cfg.Telegram.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return client, nil
}
