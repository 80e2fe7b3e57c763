/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/btreemset/pkg/api"
	"github.com/ssargent/btreemset/pkg/service"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server in front of the multiset",
	Long: `Start the msetd REST API server.

Example:
  msetd serve --port=8080 --degree=3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		degree, _ := cmd.Flags().GetInt("degree")
		if port == 0 {
			port = cfg.Port
		}
		if degree == 0 {
			degree = cfg.Degree
		}

		svc, err := service.New(degree)
		if err != nil {
			return fmt.Errorf("failed to construct multiset service: %w", err)
		}

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(svc, api.ServerConfig{Port: port, Degree: degree})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: from config)")
	serveCmd.Flags().IntP("degree", "t", 0, "B-tree minimum degree (default: from config)")
}
