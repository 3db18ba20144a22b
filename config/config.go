// Package config provides Viper-based configuration loading for serpens.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GameConfig holds where games live and how a session plays.
type GameConfig struct {
	// ContentDir is a directory of Lua world files. Empty means the
	// built-in game.
	ContentDir string `mapstructure:"content_dir"`
	// SaveDir holds one sub-directory per save slot.
	SaveDir string `mapstructure:"save_dir"`
	// TypewriterDelay is the pause between narration lines.
	TypewriterDelay time.Duration `mapstructure:"typewriter_delay"`
	// Silent hides the world's background chatter.
	Silent bool `mapstructure:"silent"`
	Cheats bool `mapstructure:"cheats"`
	// Seed fixes the dice. Zero seeds from the clock.
	Seed   int64 `mapstructure:"seed"`
	Width  int   `mapstructure:"width"`
	Height int   `mapstructure:"height"`
}

// UIConfig selects the front end.
type UIConfig struct {
	// Mode is "tui" or "plain".
	Mode  string `mapstructure:"mode"`
	Color bool   `mapstructure:"color"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is the log path. Empty disables logging.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{validateGame(c.Game), validateUI(c.UI), validateLogging(c.Logging)} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.SaveDir == "" {
		errs = append(errs, "game.save_dir must not be empty")
	}
	if g.TypewriterDelay < 0 {
		errs = append(errs, "game.typewriter_delay must not be negative")
	}
	if g.Width < 20 {
		errs = append(errs, fmt.Sprintf("game.width must be >= 20, got %d", g.Width))
	}
	if g.Height < 5 {
		errs = append(errs, fmt.Sprintf("game.height must be >= 5, got %d", g.Height))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateUI(u UIConfig) error {
	if u.Mode != "tui" && u.Mode != "plain" {
		return fmt.Errorf("ui.mode must be one of [tui, plain], got %q", u.Mode)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("logging rotation limits must not be negative")
	}
	return nil
}

// Load reads configuration from path, applies SERPENS_ environment
// overrides, and validates the result. An empty path or a missing file
// leaves the defaults in place.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SERPENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with nothing overridden.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.content_dir", "")
	v.SetDefault("game.save_dir", "saves")
	v.SetDefault("game.typewriter_delay", "0s")
	v.SetDefault("game.silent", false)
	v.SetDefault("game.cheats", false)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.width", 128)
	v.SetDefault("game.height", 32)

	v.SetDefault("ui.mode", "tui")
	v.SetDefault("ui.color", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}
