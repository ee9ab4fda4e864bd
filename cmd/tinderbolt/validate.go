package main

import (
	"fmt"

	"github.com/aretw0/tinderbolt/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [assets-dir]",
	Short: "Check configuration and assets",
	Long: `Loads the configuration and checks that every prompt, message and image the bot
needs resolves, from the embedded set overlaid by the given directory (or assets.dir).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := cfg.Assets.Dir
		if len(args) > 0 {
			dir = args[0]
		}
		if err := cli.ValidateAssets(dir); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Assets are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
