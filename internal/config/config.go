// Package config provides application configuration loaded from an optional
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Paths     PathsConfig     `yaml:"paths"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port"`
	Host string `envconfig:"HOST" yaml:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled"`
}

// PathsConfig holds the filesystem sandbox policy.
//
// Allowed is the base allow list for every operation. Reads may be widened
// with AllowedRead or opened entirely with UnrestrictedReads; writes and
// edits may be narrowed with AllowedWrite and are always subject to
// DeniedWrite, which overrides any allow entry. Entries may be relative
// (resolved against WorkingDir) or tilde-prefixed.
type PathsConfig struct {
	WorkingDir        string            `envconfig:"WORKING_DIR" yaml:"working_dir"`
	Allowed           []string          `envconfig:"ALLOWED_PATHS" yaml:"allowed_paths"`
	AllowedRead       []string          `envconfig:"ALLOWED_READ_PATHS" yaml:"allowed_read_paths"`
	UnrestrictedReads bool              `envconfig:"UNRESTRICTED_READS" yaml:"unrestricted_reads"`
	AllowedWrite      []string          `envconfig:"ALLOWED_WRITE_PATHS" yaml:"allowed_write_paths"`
	DeniedWrite       []string          `envconfig:"DENIED_WRITE_PATHS" yaml:"denied_write_paths"`
	Mentions          map[string]string `envconfig:"MENTIONS" yaml:"mentions"`
}

// ReadPaths returns the effective allow list for read operations.
// Falls back to the base allow list when no read-specific list is set.
func (p PathsConfig) ReadPaths() []string {
	if len(p.AllowedRead) > 0 {
		return p.AllowedRead
	}
	return p.Allowed
}

// WritePaths returns the effective allow list for write and edit operations.
func (p PathsConfig) WritePaths() []string {
	if len(p.AllowedWrite) > 0 {
		return p.AllowedWrite
	}
	return p.Allowed
}

// Default returns default configuration.
func Default() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Paths: PathsConfig{
			WorkingDir:  wd,
			Allowed:     []string{"."},
			DeniedWrite: []string{},
		},
	}
}

// Load builds configuration from defaults, an optional YAML file, and
// environment overrides, in that precedence order.
func Load(file string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("AGENTFS", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if len(c.Paths.Allowed) == 0 {
		c.Paths.Allowed = []string{"."}
	}
	if c.Paths.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Paths.WorkingDir = wd
		} else {
			c.Paths.WorkingDir = "."
		}
	}
}
