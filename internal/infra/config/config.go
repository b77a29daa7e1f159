// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	YouTube   YouTubeConfig           `yaml:"youtube"`
	Recommend RecommendConfig         `yaml:"recommend"`
	Filters   map[string]FilterConfig `yaml:"filters"`
	Reconnect ReconnectConfig         `yaml:"reconnect"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr           string   `yaml:"addr" default:":8080"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// YouTubeConfig represents the track search provider configuration.
type YouTubeConfig struct {
	APIKey     string `yaml:"api_key" validate:"required"`
	MaxResults int    `yaml:"max_results" default:"10" validate:"gte=1,lte=50"`
}

// RecommendConfig represents the auto-recommendation configuration.
type RecommendConfig struct {
	QueryCount   int              `yaml:"query_count" default:"2" validate:"gte=1,lte=10"`
	TimeoutSec   int              `yaml:"timeout_sec" default:"15" validate:"gte=1"`
	HistoryLimit int              `yaml:"history_limit" default:"10" validate:"gte=1"`
	GenreHints   []string         `yaml:"genre_hints"`
	Providers    []ProviderConfig `yaml:"providers" validate:"required,min=1"`
}

// ProviderConfig represents a single recommendation provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings"`
}

// FilterConfig represents an enqueue filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// ReconnectConfig represents the client reconnection policy
// (used by the terminal client; served as a hint to web clients).
type ReconnectConfig struct {
	MaxAttempts int `yaml:"max_attempts" default:"5" validate:"gte=1"`
	BaseDelayMs int `yaml:"base_delay_ms" default:"1000" validate:"gte=1"`
	MaxDelayMs  int `yaml:"max_delay_ms" default:"30000" validate:"gte=1"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for API keys.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		for i := range c.Recommend.Providers {
			if c.Recommend.Providers[i].Type == "gemini" {
				if c.Recommend.Providers[i].Settings == nil {
					c.Recommend.Providers[i].Settings = map[string]any{}
				}
				c.Recommend.Providers[i].Settings["api_key"] = v
				break
			}
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	if c.Reconnect.BaseDelayMs > c.Reconnect.MaxDelayMs {
		return errors.New("base_delay_ms cannot be greater than max_delay_ms")
	}
	return nil
}

// IsFilterEnabled checks if an enqueue filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// FilterSettings returns the settings for an enqueue filter.
func (c *Config) FilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
