// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"nextblog"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"nextblog"`

	// MongoDB connection
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"nextblog"`

	// Valkey (Redis-compatible cache). An empty host disables the list cache.
	ValkeyHost     string        `env:"VALKEY_HOST"`
	ValkeyPort     string        `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ListCacheTTL   time.Duration `env:"LIST_CACHE_TTL" envDefault:"1m"`

	CategoryCacheSize int           `env:"CATEGORY_CACHE_SIZE" envDefault:"512"`
	CategoryCacheTTL  time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`

	// MasterToken grants the blog master privileges. Empty disables writes.
	MasterToken string `env:"MASTER_TOKEN"`

	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For
	// header identifies the client for rate limiting.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Background work
	Workers           int           `env:"WORKERS" envDefault:"2"`
	WorkerQueue       int           `env:"WORKER_QUEUE" envDefault:"100"`
	TaskTimeout       time.Duration `env:"TASK_TIMEOUT" envDefault:"30s"`
	MediaFetchTimeout time.Duration `env:"MEDIA_FETCH_TIMEOUT" envDefault:"10s"`
	OrphanSweep       string        `env:"ORPHAN_SWEEP_SCHEDULE" envDefault:"*/15 * * * *"`

	LegacySingleKeySort bool `env:"LEGACY_SINGLE_KEY_SORT" envDefault:"false"`
	Seed                bool `env:"SEED" envDefault:"true"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be one of memory, postgres, mongo; got %q", cfg.StoreDriver)
	}

	if cfg.Env == "production" {
		if cfg.StoreDriver == DriverPostgres && cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.StoreDriver == DriverMemory {
			slog.Warn("running production with the in-memory store; data is lost on restart")
		}
	}
	if cfg.MasterToken == "" {
		slog.Warn("MASTER_TOKEN is not set; write endpoints are disabled")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// UseListCache reports whether a Valkey host is configured.
func (c *Config) UseListCache() bool {
	return c.ValkeyHost != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
