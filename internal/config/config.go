// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Supported storage backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver     string
	DBPath       string
	DatabaseURL  string
	StoreTimeout time.Duration
	FilesPolicy  string
	GitHubToken  string
	LogLevel     slog.Level
	LogFormat    string
}

// HasGitHubCredentials returns true when a GitHub token is configured. Used by
// the composition root to decide whether installation listing is available.
func (c *Config) HasGitHubCredentials() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// REVIEWBLAME_DATABASE_URL is required when REVIEWBLAME_DB_DRIVER is postgres.
// Optional variables with defaults: REVIEWBLAME_DB_DRIVER (sqlite),
// REVIEWBLAME_DB_PATH (reviewblame.db), REVIEWBLAME_STORE_TIMEOUT (5s),
// REVIEWBLAME_FILES_POLICY (best_effort), REVIEWBLAME_LOG_LEVEL (info),
// REVIEWBLAME_LOG_FORMAT (text). REVIEWBLAME_GITHUB_TOKEN is optional.
func Load() (*Config, error) {
	driver := DriverSQLite
	if v, ok := os.LookupEnv("REVIEWBLAME_DB_DRIVER"); ok && v != "" {
		driver = strings.ToLower(strings.TrimSpace(v))
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("REVIEWBLAME_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, driver)
	}

	dbPath := "reviewblame.db"
	if v, ok := os.LookupEnv("REVIEWBLAME_DB_PATH"); ok {
		dbPath = v
	}

	databaseURL := os.Getenv("REVIEWBLAME_DATABASE_URL")
	if driver == DriverPostgres && databaseURL == "" {
		return nil, fmt.Errorf("REVIEWBLAME_DATABASE_URL is required when REVIEWBLAME_DB_DRIVER is %q", DriverPostgres)
	}

	storeTimeout := 5 * time.Second
	if v, ok := os.LookupEnv("REVIEWBLAME_STORE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWBLAME_STORE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("REVIEWBLAME_STORE_TIMEOUT must be positive, got %s", parsed)
		}
		storeTimeout = parsed
	}

	filesPolicy := "best_effort"
	if v, ok := os.LookupEnv("REVIEWBLAME_FILES_POLICY"); ok && v != "" {
		filesPolicy = strings.ReplaceAll(strings.ToLower(v), "-", "_")
	}
	if filesPolicy != "best_effort" && filesPolicy != "strict" {
		return nil, fmt.Errorf("REVIEWBLAME_FILES_POLICY must be best_effort or strict, got %q", filesPolicy)
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("REVIEWBLAME_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("REVIEWBLAME_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	logFormat := "text"
	if v, ok := os.LookupEnv("REVIEWBLAME_LOG_FORMAT"); ok && v != "" {
		logFormat = strings.ToLower(v)
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("REVIEWBLAME_LOG_FORMAT must be text or json, got %q", logFormat)
	}

	return &Config{
		DBDriver:     driver,
		DBPath:       dbPath,
		DatabaseURL:  databaseURL,
		StoreTimeout: storeTimeout,
		FilesPolicy:  filesPolicy,
		GitHubToken:  os.Getenv("REVIEWBLAME_GITHUB_TOKEN"),
		LogLevel:     logLevel,
		LogFormat:    logFormat,
	}, nil
}
