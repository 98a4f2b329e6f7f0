package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-adventure/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default config",
	Long: `Print the built-in adventure.yaml. Save it to
~/.adventure/configs/adventure.yaml (or pass it with --config) to tune
speeds, damage, cooldowns, spawning and difficulty.

Examples:
  adventure config > ~/.adventure/configs/adventure.yaml`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.DefaultYAML()) //nolint:errcheck
	},
}
