package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tinderbolt",
	Short: "TinderBolt is a dating-assistant chat bot",
	Long: `TinderBolt runs a Telegram bot that chats through a large language model:
free chat, date rehearsal with a persona, reply suggestions and profile or opener writing.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (TINDERBOLT_* env vars override it)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level: debug, info, warn or error")
}

// loadConfig reads the config named by --config and builds the logger it describes.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger, err := logging.FromConfig(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
