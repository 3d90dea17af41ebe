// Package config provides configuration management for the pricing application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Market  MarketConfig  `mapstructure:"market"`
	Heatmap HeatmapConfig `mapstructure:"heatmap"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MarketConfig holds the default market parameters used when a command
// is run without explicit flags.
type MarketConfig struct {
	Spot              float64 `mapstructure:"spot"`
	Strike            float64 `mapstructure:"strike"`
	Rate              float64 `mapstructure:"rate"`
	TimeToExpiry      float64 `mapstructure:"time_to_expiry"`
	Volatility        float64 `mapstructure:"volatility"`
	CallPurchasePrice float64 `mapstructure:"call_purchase_price"`
	PutPurchasePrice  float64 `mapstructure:"put_purchase_price"`
}

// HeatmapConfig holds heatmap axis derivation and cache settings.
// The axis factors scale the point parameters into default ranges when
// a heatmap run gives no explicit bounds.
type HeatmapConfig struct {
	SpotMinFactor   float64 `mapstructure:"spot_min_factor"`
	SpotMaxFactor   float64 `mapstructure:"spot_max_factor"`
	VolMinFactor    float64 `mapstructure:"vol_min_factor"`
	VolMaxFactor    float64 `mapstructure:"vol_max_factor"`
	Resolution      int     `mapstructure:"resolution"`
	CacheMaxEntries int     `mapstructure:"cache_max_entries"`
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	SpotDecimals int  `mapstructure:"spot_decimals"`
	VolDecimals  int  `mapstructure:"vol_decimals"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionheat"
	}
	return filepath.Join(home, ".config", "optionheat")
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

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and run on defaults
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.spot", 100.0)
	v.SetDefault("market.strike", 100.0)
	v.SetDefault("market.rate", 0.05)
	v.SetDefault("market.time_to_expiry", 1.0)
	v.SetDefault("market.volatility", 0.20)
	v.SetDefault("market.call_purchase_price", 0.0)
	v.SetDefault("market.put_purchase_price", 0.0)

	v.SetDefault("heatmap.spot_min_factor", 0.80)
	v.SetDefault("heatmap.spot_max_factor", 1.20)
	v.SetDefault("heatmap.vol_min_factor", 0.50)
	v.SetDefault("heatmap.vol_max_factor", 1.50)
	v.SetDefault("heatmap.resolution", 25)
	v.SetDefault("heatmap.cache_max_entries", 256)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.spot_decimals", 2)
	v.SetDefault("ui.vol_decimals", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONHEAT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTIONHEAT_NO_COLOR"); v != "" {
		cfg.UI.ColorEnabled = false
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Market.Spot <= 0 {
		return fmt.Errorf("market.spot must be positive")
	}
	if c.Market.Strike <= 0 {
		return fmt.Errorf("market.strike must be positive")
	}
	if c.Market.TimeToExpiry < 0 {
		return fmt.Errorf("market.time_to_expiry must be non-negative")
	}
	if c.Market.Volatility < 0 {
		return fmt.Errorf("market.volatility must be non-negative")
	}

	if c.Heatmap.Resolution < 2 {
		return fmt.Errorf("heatmap.resolution must be at least 2")
	}
	if c.Heatmap.Resolution > 500 {
		return fmt.Errorf("heatmap.resolution must be at most 500")
	}
	if c.Heatmap.SpotMinFactor <= 0 || c.Heatmap.SpotMinFactor >= c.Heatmap.SpotMaxFactor {
		return fmt.Errorf("heatmap spot factors must satisfy 0 < min < max")
	}
	if c.Heatmap.VolMinFactor < 0 || c.Heatmap.VolMinFactor >= c.Heatmap.VolMaxFactor {
		return fmt.Errorf("heatmap vol factors must satisfy 0 <= min < max")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}
