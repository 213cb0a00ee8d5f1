// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultPollInterval is the default delay between ingestion status checks.
	defaultPollInterval = 3 * time.Second
	// defaultPollAttempts caps how many status checks run before giving up.
	defaultPollAttempts = 40
	// defaultResultCount is the result-count hint sent with search requests.
	defaultResultCount = 5
	// defaultLibraryURL points at a locally running library API.
	defaultLibraryURL = "http://127.0.0.1:8000"
	// defaultArchiveURL points at a locally running archive service.
	defaultArchiveURL = "http://127.0.0.1:8001"
)

// Config represents the top-level application configuration.
type Config struct {
	LibraryURL          string `json:"libraryUrl,omitempty"`
	ArchiveURL          string `json:"archiveUrl,omitempty"`
	Debug               bool   `json:"debug"`
	JSONMode            bool   `json:"jsonMode"`
	TimeoutSeconds      int    `json:"timeout,omitempty"`
	PollIntervalSeconds int    `json:"pollIntervalSeconds,omitempty"`
	PollMaxAttempts     int    `json:"pollMaxAttempts,omitempty"`
	ResultCountHint     int    `json:"resultCount,omitempty"`
	LogFile             string `json:"logFile,omitempty"`
	SessionFile         string `json:"sessionFile,omitempty"`
	ConfigPath          string `json:"-"`
}

// LibraryBaseURL returns the library API base URL, falling back to the local default.
func (c Config) LibraryBaseURL() string {
	if u := strings.TrimSpace(c.LibraryURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultLibraryURL
}

// ArchiveBaseURL returns the archive service base URL, falling back to the local default.
func (c Config) ArchiveBaseURL() string {
	if u := strings.TrimSpace(c.ArchiveURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultArchiveURL
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollInterval returns the delay between ingestion status checks.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return defaultPollInterval
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollAttempts returns the maximum number of status checks before an upload is
// treated as timed out.
func (c Config) PollAttempts() int {
	if c.PollMaxAttempts <= 0 {
		return defaultPollAttempts
	}
	return c.PollMaxAttempts
}

// ResultCount returns the result-count hint for search requests.
func (c Config) ResultCount() int {
	if c.ResultCountHint <= 0 {
		return defaultResultCount
	}
	return c.ResultCountHint
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "bookshelf.log"
}

// SessionFilePath returns where the login session is persisted.
func (c Config) SessionFilePath() string {
	if path := c.SessionFile; strings.TrimSpace(path) != "" {
		return path
	}
	return ".bookshelf/session.json"
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				// No file at all: local-service defaults still make a usable config.
				return Config{}, nil
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
