// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/telgraph/mantela/pkg/validation"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Crawler CrawlerConfig `yaml:"crawler"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// CrawlerConfig configures descriptor fetching and crawl defaults.
type CrawlerConfig struct {
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	UserAgent           string `yaml:"user_agent"`
	DefaultMaxHops      int    `yaml:"default_max_hops"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Crawler: CrawlerConfig{
			FetchTimeoutSeconds: 10,
			UserAgent:           "mantela-crawler/1.0",
			DefaultMaxHops:      3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, applying defaults for absent fields and
// validating the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validation.ValidateServerConfig(&validation.ServerConfig{
		Port:         c.Server.Port,
		FetchTimeout: c.Crawler.FetchTimeoutSeconds,
		UserAgent:    c.Crawler.UserAgent,
		LogLevel:     c.Log.Level,
	})
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.FetchTimeoutSeconds) * time.Second
}
