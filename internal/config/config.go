// Package config reads process-level settings from the environment. Every
// knob has an ESPALIER_ prefixed variable and a sensible default, so the
// binary runs with zero configuration and containers override what they need.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable via ESPALIER_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreBolt   = "bolt"
	StoreRedis  = "redis"
)

// Store selects and tunes the session store backend.
type Store struct {
	// Backend is one of memory, file, bolt, redis.
	Backend string `env:"ESPALIER_STORE" envDefault:"memory"`

	// Path is the data location for the file and bolt backends. File gets a
	// directory, bolt a database file.
	Path string `env:"ESPALIER_STORE_PATH" envDefault:".espalier/sessions"`

	// RedisURL is the connection string for the redis backend, in the
	// redis://[user:pass@]host:port/db form accepted by go-redis.
	RedisURL string `env:"ESPALIER_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// RedisPrefix namespaces the session keys so several deployments can
	// share one Redis.
	RedisPrefix string `env:"ESPALIER_REDIS_PREFIX" envDefault:"espalier:session:"`

	// SessionTTL expires abandoned sessions in backends that support it
	// (redis). Zero keeps sessions until completed or cancelled.
	SessionTTL time.Duration `env:"ESPALIER_SESSION_TTL"`
}

// HTTP tunes the API server started by the serve command.
type HTTP struct {
	Addr            string        `env:"ESPALIER_HTTP_ADDR" envDefault:":8080"`
	Metrics         bool          `env:"ESPALIER_METRICS" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"ESPALIER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Config is the full process configuration, read once at startup.
type Config struct {
	// LogLevel is debug, info, warn, or error.
	LogLevel string `env:"ESPALIER_LOG_LEVEL" envDefault:"info"`

	// CatalogPath points at a YAML question catalog. Empty means the
	// built-in reduction-plan catalog.
	CatalogPath string `env:"ESPALIER_CATALOG"`

	// User identifies the local operator in chat mode. Transports that
	// carry their own user IDs ignore it.
	User string `env:"ESPALIER_USER" envDefault:"local"`

	// EncryptionKey, when set, must be exactly 32 bytes; sessions are then
	// sealed with AES-256-GCM before reaching the store.
	EncryptionKey string `env:"ESPALIER_ENCRYPTION_KEY"`

	// ArchivePath is the SQLite file receiving completed runs. Empty
	// disables archiving.
	ArchivePath string `env:"ESPALIER_ARCHIVE"`

	Store Store
	HTTP  HTTP
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreBolt, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file, bolt, or redis)", c.Store.Backend)
	}

	if c.EncryptionKey != "" && len(c.EncryptionKey) != 32 {
		return fmt.Errorf("encryption key must be exactly 32 bytes, got %d", len(c.EncryptionKey))
	}

	if c.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative, got %s", c.HTTP.ShutdownTimeout)
	}

	return nil
}
