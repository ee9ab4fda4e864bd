package main

import (
	"context"

	"github.com/aretw0/tinderbolt/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot against Telegram",
	Long: `Starts the bot in long-polling or webhook mode (telegram.mode) together with
the HTTP server exposing /healthz, /metrics, /sessions and, in webhook mode, /webhook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.RequireServe(); err != nil {
			return err
		}
		completer, err := cli.NewCompleter(cfg.LLM)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, cfg, completer, logger); err != nil {
			return err
		}
		logger.Info("bot stopped", "signal", ctx.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
