package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/tinderbolt/internal/cli"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Manage the chat command menu",
}

var menuClearCmd = &cobra.Command{
	Use:   "clear <chat-id>",
	Short: "Remove the command menu of a chat",
	Long: `Deletes the chat-scoped command list and resets the menu button to the default.
The menu comes back the next time the user sends /start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chatID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat id %q: %w", args[0], err)
		}
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.RequireTelegram(); err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		if err := cli.ClearMenu(ctx, cfg, chatID, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Menu cleared for chat %d\n", chatID)
		return nil
	},
}

func init() {
	menuCmd.AddCommand(menuClearCmd)
	rootCmd.AddCommand(menuCmd)
}
