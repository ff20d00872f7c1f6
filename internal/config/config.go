// Package config provides configuration management for the dashboard.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "stock-insights/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	UI      UIConfig      `mapstructure:"ui"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Path of the file the values were read from, if any.
	Source string `mapstructure:"-" json:"-"`
}

// BackendConfig holds the stock backend endpoint settings.
type BackendConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled  bool   `mapstructure:"color_enabled"`
	PositiveColor string `mapstructure:"positive_color"`
	NegativeColor string `mapstructure:"negative_color"`
}

// ChartConfig holds chart dimensions and axis settings.
type ChartConfig struct {
	Width      int `mapstructure:"width"`
	Height     int `mapstructure:"height"`
	LabelEvery int `mapstructure:"label_every"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-insights"
	}
	return filepath.Join(home, ".config", "stock-insights")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// A .env file in the working directory is optional.
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://127.0.0.1:5000")
	v.SetDefault("backend.timeout", "0s")
	v.SetDefault("backend.user_agent", "StockInsights/1.0")

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.positive_color", "#48bb78")
	v.SetDefault("ui.negative_color", "#f56565")

	v.SetDefault("chart.width", 72)
	v.SetDefault("chart.height", 16)
	v.SetDefault("chart.label_every", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 14)
}

func loadConfigFile(configDir, name string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, write the template and run on defaults.
		if _, err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	} else {
		cfg.Source = v.ConfigFileUsed()
	}

	return v.Unmarshal(cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("INSIGHTS_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("INSIGHTS_BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "INSIGHTS_BACKEND_TIMEOUT %q", v)
		}
		cfg.Backend.Timeout = d
	}
	if v := os.Getenv("INSIGHTS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "backend.url %q must be an absolute http(s) URL", c.Backend.URL)
	}
	if c.Backend.Timeout < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "backend.timeout must be non-negative")
	}

	if !hexColor.MatchString(c.UI.PositiveColor) {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "ui.positive_color %q is not a #rrggbb color", c.UI.PositiveColor)
	}
	if !hexColor.MatchString(c.UI.NegativeColor) {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "ui.negative_color %q is not a #rrggbb color", c.UI.NegativeColor)
	}

	if c.Chart.Width < 20 || c.Chart.Height < 5 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "chart must be at least 20x5")
	}
	if c.Chart.LabelEvery < 1 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "chart.label_every must be at least 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "logging.level %q", c.Logging.Level)
	}

	return nil
}
