package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenakit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logLevel string
	logDir   string

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "arenactl",
	Short: "Run and inspect first-fit arena allocator workloads",
	Long: `arenactl drives the first-fit arena allocator from scripted or randomly
generated workloads. It reports free space, growth, and invariant checks,
and can run a workload against a file-backed arena.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to dated files in this directory")
}

// initLogging turns on the structured logger when any logging flag is set.
func initLogging(cmd *cobra.Command, args []string) error {
	opts := logger.Options{
		Enabled: logLevel != "" || logDir != "",
		Level:   logger.ParseLevel(logLevel),
		JSON:    jsonOut,
		LogDir:  logDir,
	}
	if logLevel == "" {
		opts.Level = slog.LevelInfo
	}
	closer, err := logger.Init(opts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logCloser = closer
	return nil
}

func execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
