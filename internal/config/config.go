// Package config loads lanes settings from ~/.config/lanes/config.yaml and
// LANES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dori/lanes/internal/db"
	"github.com/spf13/viper"
)

// LogConfig controls the file logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// BoardConfig controls board persistence
type BoardConfig struct {
	// Persist saves the board to the data directory after every change.
	// When false every session starts from the seed board.
	Persist bool `mapstructure:"persist" yaml:"persist"`
}

// AuthConfig controls the local account store
type AuthConfig struct {
	RememberEmail bool `mapstructure:"remember_email" yaml:"remember_email"`
	BcryptCost    int  `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// NotifyConfig controls desktop delivery of toasts
type NotifyConfig struct {
	Desktop bool `mapstructure:"desktop" yaml:"desktop"`
}

// Config is the top-level application configuration
type Config struct {
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir"`
	Theme   string       `mapstructure:"theme" yaml:"theme"`
	Log     LogConfig    `mapstructure:"log" yaml:"log"`
	Board   BoardConfig  `mapstructure:"board" yaml:"board"`
	Auth    AuthConfig   `mapstructure:"auth" yaml:"auth"`
	Notify  NotifyConfig `mapstructure:"notify" yaml:"notify"`
}

// DefaultPath returns ~/.config/lanes/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "lanes", "config.yaml")
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		DataDir: db.DefaultDataDir(),
		Theme:   "slate",
		Log:     LogConfig{Level: "info"},
		Auth:    AuthConfig{BcryptCost: 10},
	}
}

func newViper(path string) *viper.Viper {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("board.persist", def.Board.Persist)
	v.SetDefault("auth.remember_email", def.Auth.RememberEmail)
	v.SetDefault("auth.bcrypt_cost", def.Auth.BcryptCost)
	v.SetDefault("notify.desktop", def.Notify.Desktop)

	v.SetEnvPrefix("LANES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path. A missing file yields the defaults,
// still overridden by the environment.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Save writes cfg to path, creating parent directories if needed
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_dir", cfg.DataDir)
	v.Set("theme", cfg.Theme)
	v.Set("log", cfg.Log)
	v.Set("board", cfg.Board)
	v.Set("auth", cfg.Auth)
	v.Set("notify", cfg.Notify)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
