package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tinderbolt"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tinderbolt",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tinderbolt version %s\n", strings.TrimSpace(tinderbolt.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
