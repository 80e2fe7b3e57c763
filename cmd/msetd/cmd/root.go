/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/btreemset/pkg/config"
	"github.com/ssargent/btreemset/pkg/di"
)

// container holds the dependency injection container used to construct the
// API server. It is set by main via SetContainer before Execute runs.
var container *di.Container

// cfg holds the configuration loaded by the root command's
// PersistentPreRunE, available to every subcommand.
var cfg *config.Config

// SetContainer injects the dependency container to use for this run.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "msetd",
	Short: "msetd - a concurrent ordered multiset service",
	Long: `msetd serves an in-memory, thread-safe ordered multiset of strings
backed by a B-tree whose interior nodes are allocated from a lock-free
block pool. It is not a database: there is no persistence, and restarting
the process discards the multiset.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if !config.ConfigExists(configPath) {
			cfg = config.DefaultConfig()
			return nil
		}

		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config.yaml (default: ~/.config/msetd/config.yaml)")
}
