// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles tool-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, after an optional '.env' file has been loaded with 'joho/godotenv'.
Command-line flags are applied on top of the result by the caller.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    return err
	}

Architecture:

  - Immutability: Once validated, configuration is read-only.
  - DI-Friendly: Passed to the HTTP client, the gateway and the traversal via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/validate"
)

// DefaultEnvFile is loaded when [Load] is called without explicit files.
const DefaultEnvFile = ".env"

// Accepted values of LOG_FORMAT.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LogLevels lists the accepted values of LOG_LEVEL.
var LogLevels = []string{"debug", "info", "warn", "error"}

// # Configuration Schema

// Config holds all runtime configuration for the downloader.
type Config struct {

	// Remote API
	BaseURL     string `env:"LMS_BASE_URL"     envDefault:"https://my.centraluniversity.ru"`
	HeadersPath string `env:"LMS_HEADERS_PATH" envDefault:"headers.json"`

	// HTTP timing
	ConnectTimeout time.Duration `env:"LMS_CONNECT_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"LMS_READ_TIMEOUT"    envDefault:"30s"`

	// Client-side rate limiting toward the LMS
	RateLimitRPS   float64 `env:"LMS_RATE_LIMIT_RPS"   envDefault:"5"`
	RateLimitBurst int     `env:"LMS_RATE_LIMIT_BURST" envDefault:"10"`

	// Downloads. Existing is parsed by the download engine.
	DownloadRoot string        `env:"DOWNLOAD_ROOT"          envDefault:"./downloads"`
	Workers      int           `env:"DOWNLOAD_WORKERS"       envDefault:"4"`
	Existing     string        `env:"DOWNLOAD_EXISTING"      envDefault:"overwrite"`
	Retries      int           `env:"DOWNLOAD_RETRIES"       envDefault:"0"`
	RetryBackoff time.Duration `env:"DOWNLOAD_RETRY_BACKOFF" envDefault:"2s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Debug     bool   `env:"DEBUG"      envDefault:"false"`
}

// # Configuration Loading

// Load reads the optional env files and parses environment variables into a [Config].
//
// Missing env files are ignored. Variables already present in the process
// environment take precedence over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}

	// 1. Merge .env files into the process environment
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", file, err)
		}
	}

	// 2. Map the environment onto the schema
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Validate checks the values after flags have been applied.
func (c *Config) Validate() error {
	v := &validate.Validator{}

	v.Required("base_url", c.BaseURL).
		URL("base_url", c.BaseURL).
		Custom("connect_timeout", c.ConnectTimeout <= 0, "Must be positive").
		Custom("read_timeout", c.ReadTimeout <= 0, "Must be positive").
		Custom("rate_limit_rps", c.RateLimitRPS <= 0, "Must be positive").
		Range("rate_limit_burst", c.RateLimitBurst, 1, 1000).
		Required("download_root", c.DownloadRoot).
		Range("workers", c.Workers, 1, 64).
		Range("retries", c.Retries, 0, 10).
		Custom("retry_backoff", c.RetryBackoff < 0, "Must not be negative").
		OneOf("log_level", c.LogLevel, LogLevels...).
		OneOf("log_format", c.LogFormat, FormatText, FormatJSON)

	return v.Err()
}

// EffectiveLogLevel returns the configured level, forced to debug when DEBUG is set.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
