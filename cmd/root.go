package cmd

import (
	"fmt"
	"os"

	"chefbot/src"
	"chefbot/src/logger"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "chefbot",
	Short: "LINE chef assistant that recommends recipes",
	Long: `chefbot answers LINE chat messages: it greets users, remembers their names,
offers recipe categories and dishes scraped from krua.co, and falls back to an LLM.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// loadConfig reads the configuration and initializes the logger
func loadConfig() (*src.Config, error) {
	config, err := src.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(config.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return config, nil
}
