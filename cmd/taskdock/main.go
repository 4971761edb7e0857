package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskdock/internal/config"
	"taskdock/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded configuration, available to all subcommands.
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "taskdock",
	Short: "taskdock - project task inventory",
	Long: `taskdock aggregates runnable task definitions from YAML files and
ad-hoc user input into one deterministically ordered listing.

Sources registered at the same absolute path are deduplicated; listing
order prefers recently scheduled tasks, then worktree-local origins,
then numeric-prefix-aware name order ("2_task" before "10_task").`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logging.Configure(logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		})
		if ws, err := os.Getwd(); err == nil {
			if err := logging.Initialize(ws); err != nil {
				logger.Warn("Category logging unavailable", zap.Error(err))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	defaultConfig := "taskdock.yaml"
	if ws, err := os.Getwd(); err == nil {
		defaultConfig = filepath.Join(ws, "taskdock.yaml")
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
