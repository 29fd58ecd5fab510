package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpool",
	Short: "taskpool - bounded task executor with fan-out helpers",
	Long: `taskpool runs tasks on a fixed set of workers behind a bounded queue.
Submissions beyond the queue capacity are rejected instead of blocking.

Use "invoke" to fan a list of integers out over the executor and "feed"
to drive it at a fixed rate until it saturates.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(feedCmd)
}
