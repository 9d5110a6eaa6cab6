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
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr            string `yaml:"addr" default:":8080"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_sec" default:"10" validate:"gte=1,lte=60"`
}

// DatabaseConfig represents Postgres configuration.
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"required"`
}

// YouTubeConfig represents YouTube Data API configuration.
type YouTubeConfig struct {
	APIKey      string `yaml:"api_key" validate:"required"`
	BaseURL     string `yaml:"base_url" default:"https://www.googleapis.com/youtube/v3"`
	TimeoutSec  int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=60"`
	MaxPlaylist int    `yaml:"max_playlist_items" default:"50" validate:"gte=1,lte=50"`
}

// CacheConfig represents the metadata cache configuration. Settings are
// provider-specific and decoded by the cache factory.
type CacheConfig struct {
	Provider string         `yaml:"provider" default:"memory" validate:"oneof=memory redis"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
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
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if c.Cache.Settings == nil {
			c.Cache.Settings = map[string]any{}
		}
		c.Cache.Provider = "redis"
		c.Cache.Settings["addr"] = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
