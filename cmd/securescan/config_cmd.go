package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/userconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage SecureScan configuration",
	Long: `Manage persistent user configuration for SecureScan.

Configuration is stored in ~/.securescan/config.json (override with
SECURESCAN_CONFIG). Comments and trailing commas are allowed.

Examples:
  securescan config get server.port
  securescan config set scan.max_detection_rate 0.3
  securescan config set tui.drop_dir ~/Downloads
  securescan config list`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := userconfig.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := userconfig.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path, err := userconfig.Path()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "📋 SecureScan Configuration")
		fmt.Fprintf(out, "   %s\n\n", path)
		for _, key := range userconfig.Keys() {
			value, err := userconfig.Get(key)
			if err != nil {
				return err
			}
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(out, "  %-24s %s\n", key+":", value)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
