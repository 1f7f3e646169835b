package main

import (
	"fmt"
	"os"

	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sahone-backend",
	Short: "Sah One food ordering API",
	// no subcommand starts the server
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCategoriesCmd)
	rootCmd.AddCommand(reportCmd)
}

// boot loads config, sets up logging and opens (and migrates) the database.
func boot() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg)
	if err := database.Init(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
