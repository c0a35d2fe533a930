// Package cmd provides the command-line interface for the carousel engine.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--items, --port, etc.) - highest priority
//	2. Individual environment variables (CAROUSEL_SERVER_PORT, etc.)
//	3. Configuration file (--config, CAROUSEL_CONFIG_FILE or .carousel.yml)
//	4. Built-in defaults - lowest priority
//
// Environment Variables:
//
//	CAROUSEL_CONFIG_FILE: Path to custom configuration file
//	CAROUSEL_CAROUSEL_AUTOPLAY: Enable autoplay
//	CAROUSEL_SERVER_PORT: Override server port
//	And more following the CAROUSEL_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/fluentcarousel/internal/config"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "A Fluent carousel navigation engine with a live showcase",
	Long: `carousel drives a Fluent design carousel: current-item tracking,
next/previous navigation with optional wraparound, and an autoplay timer
that pauses on hover and restarts on manual interaction.

Quick Start:
  carousel serve                  Start the showcase server
  carousel play --autoplay        Run autoplay in the terminal
  carousel validate items.yml     Check an items file
  carousel version                Show version information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .carousel.yml, can also use CAROUSEL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-dir", "", "also write logs to a dated file in this directory")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"log.level":  "log-level",
			"log.format": "log-format",
			"log.dir":    "log-dir",
		})
	}
}

// initConfig initializes the configuration system.
//
// Configuration file priority (highest to lowest):
//  1. --config flag
//  2. CAROUSEL_CONFIG_FILE environment variable
//  3. .carousel.yml in the current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CAROUSEL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".carousel")
	}

	viper.SetEnvPrefix("CAROUSEL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable file falls back to flags, env and defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger. When log.dir is set the output also
// goes to a dated file; the returned func closes it.
func newLogger(cfg config.LogConfig) (logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Format

	console := logging.NewLogger(logCfg)
	if cfg.Dir == "" {
		return console, func() {}, nil
	}

	fileLogger, err := logging.NewFileLogger(logCfg, cfg.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return logging.NewMultiLogger(console, fileLogger), func() { _ = fileLogger.Close() }, nil
}
