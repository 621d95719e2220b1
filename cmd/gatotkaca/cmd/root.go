// Package cmd provides the CLI commands for the GatotKaca search engine.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/config"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/logging"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gatotkaca",
		Short: "Full-text search engine for Indonesian document collections",
		Long: `GatotKaca indexes folders of Indonesian text documents and serves
ranked full-text search with stemming-aware normalization, category
filters, and highlighted snippets.

Start with 'gatotkaca index' to build the index from your corpus,
then 'gatotkaca serve' to expose the HTTP API.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("gatotkaca version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default gatotkaca.yaml if present)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(),
		newIndexCmd(),
		newSearchCmd(),
		newStatsCmd(),
		newAnalyzeCmd(),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// defaultConfigFile is picked up when --config is not given.
const defaultConfigFile = "gatotkaca.yaml"

// loadConfig reads configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	return config.Load(path)
}

// setupLogging installs the default logger per config and flags.
// The returned cleanup closes the log file, if any.
func setupLogging(cfg *config.Config) (func(), error) {
	logCfg := logging.Config{Level: cfg.Logging.Level, FilePath: cfg.Logging.File}
	if debugMode {
		logCfg.Level = "debug"
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return nil, err
	}
	return cleanup, nil
}

// logger returns the process-wide logger installed by setupLogging.
func logger() *slog.Logger {
	return slog.Default()
}
