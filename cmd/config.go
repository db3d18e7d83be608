// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mbcli/cli/internal/config"
)

// configCmd shows the settings stored in config.json.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
	Long: `Without a subcommand, config prints every setting and the file it is read from.
Credentials are not part of the config file; they come from the environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		p, err := config.Path()
		if err != nil {
			return err
		}
		pterm.Println("📁 " + p)
		for _, key := range config.Keys {
			v, _ := c.Get(key)
			pterm.Println(fmt.Sprintf("   %-18s %s", key, v))
		}
		return nil
	},
}

// configSetCmd updates one setting and writes the file.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(c); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		pterm.Println(fmt.Sprintf("✅ %s updated", args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
