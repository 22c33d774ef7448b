// Package main provides the visitparse binary entry point.
// Visitparse parses spacecraft visit command files into a structured
// model, renders summary and instrument overview tables, and keeps a
// local record of batch ingests.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/commands"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "visitparse"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Spacecraft visit command file parser",
		Long: `Visitparse reads visit command files, reconstructs their
group/sequence/activity hierarchy, and renders summary and instrument
overview tables.

It provides:
- Single-file parsing with activity descriptions
- Instrument overview reports
- Batch ingestion with a local visit store
- Directory watching for continuous re-parsing`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(commands.NewParseCommand())
	cmd.AddCommand(commands.NewOverviewCommand(&configPath))
	cmd.AddCommand(commands.NewCrosscheckCommand())
	cmd.AddCommand(commands.NewIngestCommand(&configPath))
	cmd.AddCommand(commands.NewWatchCommand(&configPath))
	cmd.AddCommand(commands.NewVisitsCommand(&configPath))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
