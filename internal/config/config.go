// Package config internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/income-usd/internal/infrastructure/source"
	"github.com/joho/godotenv"
)

// InMemoryDataDir selects an in-memory rate store instead of an on-disk one
const InMemoryDataDir = ":memory:"

// Defaults used when the environment does not provide a value
const (
	DefaultPort          = "8080"
	DefaultSiteTitle     = "Income in USD"
	DefaultDataDir       = "./data"
	DefaultRatesEncoding = "utf-8"
	DefaultLogLevel      = "INFO"
	DefaultStartYear     = 1980
	DefaultEndYear       = 2025
	DefaultPageCacheTTL  = time.Hour
)

// Config holds the application configuration
type Config struct {
	// HTTP Server
	Port      string
	SiteTitle string

	// Rate store
	DataDir string

	// Optional CSV overriding the built-in rates
	RatesFile     string
	RatesEncoding string

	// Logging
	LogLevel string

	// Rate table range
	StartYear int
	EndYear   int

	// Rendered page cache
	PageCacheTTL time.Duration
}

// Load reads the configuration from the environment. When envFile is non-empty
// and exists it is loaded first; variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:      getEnv("PORT", DefaultPort),
		SiteTitle: getEnv("SITE_TITLE", DefaultSiteTitle),

		DataDir: getEnv("DATA_DIR", DefaultDataDir),

		RatesFile:     getEnv("RATES_FILE", ""),
		RatesEncoding: strings.ToLower(getEnv("RATES_ENCODING", DefaultRatesEncoding)),

		LogLevel: getEnv("LOG_LEVEL", DefaultLogLevel),

		StartYear: getEnvInt("START_YEAR", DefaultStartYear),
		EndYear:   getEnvInt("END_YEAR", DefaultEndYear),

		PageCacheTTL: getEnvDuration("PAGE_CACHE_TTL", DefaultPageCacheTTL),
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// InMemory reports whether the rate store should live in memory only
func (c *Config) InMemory() bool {
	return c.DataDir == InMemoryDataDir
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DataDir == "" {
		problems = append(problems, "data directory cannot be empty")
	}

	if _, err := source.ParseEncoding(c.RatesEncoding); err != nil {
		problems = append(problems, fmt.Sprintf("invalid rates encoding '%s': must be 'utf-8' or 'shift_jis'", c.RatesEncoding))
	}

	if c.RatesFile != "" {
		if _, err := os.Stat(c.RatesFile); err != nil {
			problems = append(problems, fmt.Sprintf("rates file is not readable: %s", c.RatesFile))
		}
	}

	if c.StartYear > c.EndYear {
		problems = append(problems, fmt.Sprintf("invalid year range %d-%d: start must not be after end", c.StartYear, c.EndYear))
	}

	if c.PageCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid page cache ttl %v: must be positive", c.PageCacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
