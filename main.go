// package main is the entry point for the auto-merger tool
package main

import (
	"log/slog"
	"os"

	"github.com/phracek/auto-merger/cmd/merger"
	"github.com/phracek/auto-merger/cmd/prchecker"
	"github.com/phracek/auto-merger/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "auto-merger",
		Short: "A CLI tool for triaging open pull requests across GitHub repositories",
		Long: `auto-merger checks open pull requests across the repositories of a
GitHub organization, reports which ones are blocked by labels and which ones
have enough approvals to be merged, and can deliver the summary by email.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "auto-merger.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(prchecker.NewPRCheckerCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(merger.NewMergerCmd(&configFile, config.LoadConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
