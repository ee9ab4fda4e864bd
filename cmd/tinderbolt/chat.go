package main

import (
	"context"
	"os"

	"github.com/aretw0/tinderbolt/internal/cli"
	"github.com/aretw0/tinderbolt/internal/console"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long: `Runs one local session on stdin/stdout instead of Telegram.
Type commands such as /gpt or /date as you would in the chat; enter a number to press a listed button.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.RequireLLM(); err != nil {
			return err
		}
		completer, err := cli.NewCompleter(cfg.LLM)
		if err != nil {
			return err
		}

		var opts []console.Option
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			opts = append(opts, console.WithPlain())
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.Chat(ctx, cfg, completer, os.Stdin, os.Stdout, logger, opts...)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering and colors")
}
