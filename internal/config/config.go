// SPDX-License-Identifier: MIT

// Package config loads process-wide settings for the topomerge tools
// from the environment, optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvLogLevel       = "TOPOMERGE_LOG_LEVEL"
	EnvLogDir         = "TOPOMERGE_LOG_DIR"
	EnvCacheSize      = "TOPOMERGE_CACHE_SIZE"
	EnvCacheTTL       = "TOPOMERGE_CACHE_TTL"
	EnvConcurrency    = "TOPOMERGE_CONCURRENCY"
	EnvMaxCells       = "TOPOMERGE_MAX_CELLS"
	EnvGCSCredentials = "TOPOMERGE_GCS_CREDENTIALS"
)

// Defaults.
const (
	DefaultLogLevel  = "info"
	DefaultCacheSize = 8
	DefaultCacheTTL  = 10 * time.Minute
	DefaultMaxCells  = 1 << 28
)

// ErrInvalid reports a setting outside its accepted range.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds settings shared by every subcommand.
type Config struct {
	LogLevel string
	LogDir   string

	// Source cache sizing for sweeps.
	CacheSize int
	CacheTTL  time.Duration

	// Concurrency bounds the number of regions processed at once.
	Concurrency int

	// MaxCells caps the cell count of any resampled raster.
	MaxCells int

	// GCSCredentials is a path to a service account JSON file. Empty
	// means application default credentials.
	GCSCredentials string
}

// Load reads envFile (if it exists) into the environment without
// overriding variables already set, then builds and validates a Config.
// An empty envFile skips the file step.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		LogLevel:       getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
		LogDir:         getEnvOrDefault(EnvLogDir, ""),
		CacheSize:      getEnvAsIntOrDefault(EnvCacheSize, DefaultCacheSize),
		CacheTTL:       getEnvAsDurationOrDefault(EnvCacheTTL, DefaultCacheTTL),
		Concurrency:    getEnvAsIntOrDefault(EnvConcurrency, runtime.NumCPU()),
		MaxCells:       getEnvAsIntOrDefault(EnvMaxCells, DefaultMaxCells),
		GCSCredentials: getEnvOrDefault(EnvGCSCredentials, ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvLogLevel, c.LogLevel)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalid, EnvCacheSize, c.CacheSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %s", ErrInvalid, EnvCacheTTL, c.CacheTTL)
	}
	if c.Concurrency < 1 || c.Concurrency > 256 {
		return fmt.Errorf("%w: %s must be between 1 and 256, got %d", ErrInvalid, EnvConcurrency, c.Concurrency)
	}
	if c.MaxCells < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, EnvMaxCells, c.MaxCells)
	}

	return nil
}

// ReadCredentials returns the contents of the GCS credentials file, or
// nil when none is configured.
func (c *Config) ReadCredentials() ([]byte, error) {
	if c.GCSCredentials == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.GCSCredentials)
	if err != nil {
		return nil, fmt.Errorf("config: reading credentials: %w", err)
	}

	return data, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns defaultValue for unset variables. Malformed
// numbers yield -1 so Validate rejects them instead of silently ignoring.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return -1
	}

	return value
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds.
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	return -1
}
