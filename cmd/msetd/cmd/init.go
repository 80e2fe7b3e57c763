/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/btreemset/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default msetd configuration file to the given path (or the
default ~/.config/msetd/config.yaml), without overwriting an existing one
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		if err := config.SaveConfig(config.DefaultConfig(), configPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		cmd.Printf("Wrote default config to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
