package main

import (
	"github.com/aretw0/tinderbolt/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the bot as an MCP server on stdio.
Agents can send messages and press buttons as any user, then inspect the resulting sessions.
Replies are captured in memory; nothing is sent to Telegram.`,
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
		return cli.ServeMCP(cfg, completer, logger)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
