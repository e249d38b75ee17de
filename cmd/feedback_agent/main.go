// Package main provides the entry point for the devlog feedback agent.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/devlog-feedback/internal/config"
	"github.com/jonathan/devlog-feedback/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "feedback_agent",
	Short:        "Devlog Feedback Agent",
	Long:         "Devlog Feedback Agent reviews developer blog drafts with a language model and returns structured, schema-validated writing feedback.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional; env vars override it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime resolves the effective config and a logger writing to stderr
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(os.Stderr, level, cfg.Logging.Format), nil
}
