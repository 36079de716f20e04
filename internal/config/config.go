package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	API         APIConfig     `toml:"api"`
	Cache       CacheConfig   `toml:"cache"`
	Display     DisplayConfig `toml:"display"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the upstream investors API.
type APIConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"` // 0 disables the client timeout
}

// CacheConfig controls the per-query response cache.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"` // 0 disables caching
	MaxEntries int `toml:"max_entries"`
}

// DisplayConfig contains presentation settings.
type DisplayConfig struct {
	Currency string `toml:"currency"` // ISO code whose symbol prefixes aggregate cards
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// APITimeout returns the upstream request timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL returns the query cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// IsDevMode reports whether the portal runs in the dev environment.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// BaseURL returns the portal's own base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// Validate returns a list of configuration problems. Empty means valid.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if strings.TrimSpace(c.API.URL) == "" {
		issues = append(issues, "api.url is required (PORTAL_API_URL)")
	} else if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.url must be an absolute http(s) URL (got %q)", c.API.URL))
	}
	if c.API.TimeoutSeconds < 0 {
		issues = append(issues, "api.timeout_seconds must not be negative")
	}
	if c.Cache.TTLSeconds < 0 {
		issues = append(issues, "cache.ttl_seconds must not be negative")
	}
	if c.Cache.TTLSeconds > 0 && c.Cache.MaxEntries <= 0 {
		issues = append(issues, "cache.max_entries must be positive when caching is enabled")
	}

	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PORTAL_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PORTAL_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("PORTAL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PORTAL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if apiURL := os.Getenv("PORTAL_API_URL"); apiURL != "" {
		config.API.URL = strings.TrimRight(apiURL, "/")
	}
	if timeout := os.Getenv("PORTAL_API_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.API.TimeoutSeconds = t
		}
	}
	if ttl := os.Getenv("PORTAL_CACHE_TTL_SECONDS"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			config.Cache.TTLSeconds = t
		}
	}
	if currency := os.Getenv("PORTAL_DISPLAY_CURRENCY"); currency != "" {
		config.Display.Currency = strings.ToUpper(currency)
	}
	if level := os.Getenv("PORTAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host, apiURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if apiURL != "" {
		config.API.URL = strings.TrimRight(apiURL, "/")
	}
}
