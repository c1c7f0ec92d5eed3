// Package config loads divanalyzer settings from defaults, an optional YAML
// file, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"divanalyzer/internal/alphavantage"
	"divanalyzer/internal/coordinator"
	"divanalyzer/internal/export"
	"divanalyzer/internal/yahoo"
)

// Provider names accepted by the provider key.
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "DIVANALYZER"

// Config holds all configuration for divanalyzer.
type Config struct {
	Provider           string `mapstructure:"provider"`
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	YahooBaseURL        string `mapstructure:"yahoo_base_url"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`

	WindowDays        int           `mapstructure:"window_days"`
	RequestDelay      time.Duration `mapstructure:"request_delay"`
	ComparisonTickers []string      `mapstructure:"comparison_tickers"`
	OutputFile        string        `mapstructure:"output_file"`
	ChartDir          string        `mapstructure:"chart_dir"`
	ChartWidth        int           `mapstructure:"chart_width"`
	ChartHeight       int           `mapstructure:"chart_height"`
	Timezone          string        `mapstructure:"timezone"`

	// Minimum spacing between requests to each API
	AlphavantageInterval time.Duration `mapstructure:"alphavantage_interval"`
	YahooInterval        time.Duration `mapstructure:"yahoo_interval"`
	HTTPTimeout          time.Duration `mapstructure:"http_timeout"`
	HTTPRetries          int           `mapstructure:"http_retries"`

	LogLevel string `mapstructure:"log_level"`
	Colors   bool   `mapstructure:"colors"`

	location *time.Location
	level    slog.Level
}

// Window returns the trailing window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}

// Location returns the zone every record is converted to, or nil to keep
// each provider's own zone.
func (c *Config) Location() *time.Location {
	return c.location
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	return c.level
}

// Load reads configuration. Precedence, highest first: environment
// variables, .env, the config file, defaults. An explicit cfgFile must exist;
// otherwise config.yaml is looked up in . and $HOME/.divanalyzer.
//
// Environment variables are the upper-cased keys with the DIVANALYZER_
// prefix, e.g. DIVANALYZER_WINDOW_DAYS. The API key is also read from
// ALPHAVANTAGE_API_KEY.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("provider", ProviderYahoo)
	v.SetDefault("alphavantage_api_key", "")
	v.SetDefault("yahoo_base_url", yahoo.DefaultBaseURL)
	v.SetDefault("alphavantage_base_url", alphavantage.DefaultBaseURL)
	v.SetDefault("window_days", 182)
	v.SetDefault("request_delay", 2*time.Second)
	v.SetDefault("comparison_tickers", coordinator.DefaultTickers)
	v.SetDefault("output_file", export.DefaultFile)
	v.SetDefault("chart_dir", ".")
	v.SetDefault("chart_width", 1000)
	v.SetDefault("chart_height", 600)
	v.SetDefault("timezone", "")
	v.SetDefault("alphavantage_interval", 12*time.Second)
	v.SetDefault("yahoo_interval", time.Duration(0))
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("http_retries", 3)
	v.SetDefault("log_level", "info")
	v.SetDefault("colors", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.divanalyzer")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("alphavantage_api_key", EnvPrefix+"_ALPHAVANTAGE_API_KEY", "ALPHAVANTAGE_API_KEY")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate normalizes the loaded values and rejects unusable ones.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if c.AlphavantageAPIKey == "" {
			return fmt.Errorf("missing required configuration: ALPHAVANTAGE_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderYahoo, ProviderAlphaVantage)
	}

	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive, got %d", c.WindowDays)
	}

	for key, d := range map[string]time.Duration{
		"request_delay":         c.RequestDelay,
		"alphavantage_interval": c.AlphavantageInterval,
		"yahoo_interval":        c.YahooInterval,
		"http_timeout":          c.HTTPTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", key, d)
		}
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}

	if c.HTTPRetries < 0 {
		return fmt.Errorf("http_retries must not be negative, got %d", c.HTTPRetries)
	}

	tickers := make([]string, 0, len(c.ComparisonTickers))
	for _, t := range c.ComparisonTickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	c.ComparisonTickers = tickers

	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
		c.location = loc
	}

	if err := c.level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}
