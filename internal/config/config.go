// Package config provides configuration management for the carousel CLI
// using Viper for loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the CAROUSEL_ prefix, and validation. It covers the
// carousel inputs (items file, active index, autoplay, interval, loop and
// the presentation-only options), the showcase server, the items-file
// watcher and logging.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	carouselerrors "github.com/conneroisu/fluentcarousel/internal/errors"
	"github.com/conneroisu/fluentcarousel/internal/types"
	"github.com/spf13/viper"
)

// Sizes accepted by carousel.size.
var Sizes = []string{"small", "medium", "large"}

type Config struct {
	Carousel CarouselConfig `mapstructure:"carousel" yaml:"carousel"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type CarouselConfig struct {
	ItemsFile        string `mapstructure:"items_file" yaml:"items_file"`
	ActiveIndex      int    `mapstructure:"active_index" yaml:"active_index"`
	AutoPlay         bool   `mapstructure:"autoplay" yaml:"autoplay"`
	AutoPlayInterval int    `mapstructure:"autoplay_interval" yaml:"autoplay_interval"` // milliseconds
	Loop             bool   `mapstructure:"loop" yaml:"loop"`
	ShowIndicators   bool   `mapstructure:"show_indicators" yaml:"show_indicators"`
	ShowControls     bool   `mapstructure:"show_controls" yaml:"show_controls"`
	Size             string `mapstructure:"size" yaml:"size"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type WatchConfig struct {
	Enabled  bool `mapstructure:"enabled" yaml:"enabled"`
	Debounce int  `mapstructure:"debounce" yaml:"debounce"` // milliseconds
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
}

// Interval returns the autoplay period as a duration.
func (c CarouselConfig) Interval() time.Duration {
	return time.Duration(c.AutoPlayInterval) * time.Millisecond
}

// SyncConfig converts the carousel section into the configuration pushed
// through carousel.Sync.
func (c CarouselConfig) SyncConfig(items []types.Item) carousel.Config {
	active := c.ActiveIndex
	return carousel.Config{
		Items:       items,
		ActiveIndex: &active,
		AutoPlay:    c.AutoPlay,
		Interval:    c.Interval(),
		Loop:        c.Loop,
	}
}

// DebounceDelay returns the watcher debounce as a duration.
func (w WatchConfig) DebounceDelay() time.Duration {
	return time.Duration(w.Debounce) * time.Millisecond
}

// Addr returns host:port for the showcase server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, carouselerrors.NewConfigError(carouselerrors.ErrCodeConfigLoad, "failed to decode configuration", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if !viper.IsSet("carousel.autoplay_interval") || config.Carousel.AutoPlayInterval == 0 {
		config.Carousel.AutoPlayInterval = int(carousel.DefaultInterval.Milliseconds())
	}
	if !viper.IsSet("carousel.show_indicators") {
		config.Carousel.ShowIndicators = true
	}
	if !viper.IsSet("carousel.show_controls") {
		config.Carousel.ShowControls = true
	}
	if config.Carousel.Size == "" {
		config.Carousel.Size = "medium"
	}
	config.Carousel.Size = strings.ToLower(config.Carousel.Size)

	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if !viper.IsSet("server.port") {
		config.Server.Port = 8080
	}

	if !viper.IsSet("watch.enabled") {
		config.Watch.Enabled = true
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 200
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// validateConfig reports every invalid value at once
func validateConfig(config *Config) error {
	var vec carouselerrors.ValidationErrorCollection

	validateCarouselConfig(&config.Carousel, &vec)
	validateServerConfig(&config.Server, &vec)

	if config.Watch.Debounce < 0 {
		vec.Add("watch.debounce", config.Watch.Debounce, "debounce cannot be negative")
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		vec.Add("log.format", config.Log.Format, "unknown log format", "use text or json")
	}
	if config.Log.Dir != "" {
		if err := validatePath(config.Log.Dir); err != nil {
			vec.Add("log.dir", config.Log.Dir, err.Error())
		}
	}

	return vec.Err()
}

func validateCarouselConfig(config *CarouselConfig, vec *carouselerrors.ValidationErrorCollection) {
	if config.AutoPlayInterval < 0 {
		vec.Add("carousel.autoplay_interval", config.AutoPlayInterval,
			"interval cannot be negative",
			fmt.Sprintf("use at least %d milliseconds", carousel.MinInterval.Milliseconds()))
	}
	if config.ActiveIndex < 0 {
		vec.Add("carousel.active_index", config.ActiveIndex, "active index cannot be negative")
	}
	if !isKnownSize(config.Size) {
		vec.Add("carousel.size", config.Size, "unknown size", "use one of: "+strings.Join(Sizes, ", "))
	}
	if config.ItemsFile != "" {
		if err := validatePath(config.ItemsFile); err != nil {
			vec.Add("carousel.items_file", config.ItemsFile, err.Error())
		}
	}
}

func validateServerConfig(config *ServerConfig, vec *carouselerrors.ValidationErrorCollection) {
	// Port 0 lets the system assign one, which tests rely on
	if config.Port < 0 || config.Port > 65535 {
		vec.Add("server.port", config.Port, fmt.Sprintf("port %d is not in valid range 0-65535", config.Port))
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	for _, char := range dangerousChars {
		if strings.Contains(config.Host, char) {
			vec.Add("server.host", config.Host, "host contains dangerous character: "+char)
			break
		}
	}
}

func isKnownSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
