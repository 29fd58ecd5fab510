package main

import (
	"fmt"

	"github.com/aatumaykin/taskpool/internal/config"
	"github.com/aatumaykin/taskpool/internal/constants"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and inspect taskpool configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and report every error found.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := constants.DefaultConfigPath
		if configPath != "" {
			path = configPath
		}
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		errs := cfg.Validate()
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(out, "  - %v\n", e)
			}
			return fmt.Errorf("config validation failed: %d errors", len(errs))
		}

		fmt.Fprintf(out, "Configuration %s is valid\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
