// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_PORT=3001, APP_LOG_LEVEL=debug
type Config struct {
	// Server configuration (embedded to flatten env vars)
	Server ServerConfig

	// Database configuration (embedded to flatten env vars)
	Database DatabaseConfig

	// Cache configuration
	Cache CacheConfig

	// Auth configuration
	Auth AuthConfig

	// RateLimit configuration
	RateLimit RateLimitConfig

	// Logging configuration (embedded to flatten env vars)
	Log LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTPS server port (default: 3001)
	Port int `envconfig:"PORT" default:"3001"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// CertPath is the TLS certificate file (required)
	CertPath string `envconfig:"TLS_CERT_PATH" required:"true"`

	// KeyPath is the TLS private key file (required)
	KeyPath string `envconfig:"TLS_KEY_PATH" required:"true"`

	// CORSOrigin is the single origin allowed to call the API (default: http://localhost:3000)
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `envconfig:"DATABASE_URL" required:"true"`

	// MaxOpenConns is the maximum number of open connections (default: 25)
	MaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`

	// MaxIdleConns is the minimum number of idle connections kept open (default: 5)
	MaxIdleConns int `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	// ConnMaxLifetime is the maximum lifetime of a connection (default: 5m)
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// CacheConfig holds Redis settings for the search cache.
type CacheConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0 (required)
	URL string `envconfig:"CACHE_URL" required:"true"`

	// TTL is how long a search result stays cached (default: 10m)
	TTL time.Duration `envconfig:"CACHE_TTL" default:"10m"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	// JWTSecret signs bearer tokens (required)
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// TokenTTL is the lifetime of an issued token (default: 1h)
	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
}

// RateLimitConfig holds the fixed-window limiter settings.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window per client (default: 100)
	Requests int `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`

	// Window is the fixed window length (default: 15m)
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`

	// Backend is "memory" (per process) or "redis" (shared through the cache server)
	Backend string `envconfig:"RATE_LIMIT_BACKEND" default:"memory"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables.
// It returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	// Load each config section separately to flatten env var names
	// This allows env vars like APP_PORT instead of APP_SERVER_PORT
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Cache); err != nil {
		return nil, fmt.Errorf("failed to load cache config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Auth); err != nil {
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("failed to load rate limit config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that envconfig cannot express with tags.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("APP_JWT_SECRET must not be blank"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("APP_TOKEN_TTL must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("APP_CACHE_TTL must be positive"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("APP_RATE_LIMIT_REQUESTS and APP_RATE_LIMIT_WINDOW must be positive"))
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("APP_RATE_LIMIT_BACKEND %q is not one of memory, redis", c.RateLimit.Backend))
	}
	for name, path := range map[string]string{
		"APP_TLS_CERT_PATH": c.Server.CertPath,
		"APP_TLS_KEY_PATH":  c.Server.KeyPath,
	} {
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
