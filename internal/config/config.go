// Package config loads server configuration from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/draftboard/internal/model"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the full server configuration
type Config struct {
	SessionID string         `yaml:"session_id"`
	LogLevel  string         `yaml:"log_level"`
	Server    ServerConfig   `yaml:"server"`
	Storage   StorageConfig  `yaml:"storage"`
	League    model.Settings `yaml:"league"`
	Strategy  StrategyConfig `yaml:"strategy"`
	Autosave  AutosaveConfig `yaml:"autosave"`
	NATS      NATSConfig     `yaml:"nats"`
	Auth      AuthConfig     `yaml:"auth"`
	// RankingsPath is imported at startup when no snapshot exists
	RankingsPath string `yaml:"rankings_path"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type StorageConfig struct {
	Type        string        `yaml:"type"`
	RedisURL    string        `yaml:"redis_url"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	SQLitePath  string        `yaml:"sqlite_path"`
}

// StrategyConfig selects the strategy collaborator. An empty RemoteURL uses
// the in-process strategies.
type StrategyConfig struct {
	RemoteURL string        `yaml:"remote_url"`
	Token     string        `yaml:"token"`
	Timeout   time.Duration `yaml:"timeout"`
}

type AutosaveConfig struct {
	QuietPeriod time.Duration `yaml:"quiet_period"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// AuthConfig protects mutating API routes when PasswordHash is set
type AuthConfig struct {
	PasswordHash string `yaml:"password_hash"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		SessionID: "default",
		LogLevel:  "info",
		Server: ServerConfig{
			Port:        8080,
			ReadTimeout: 15 * time.Second,
			// zero: event streams are long-lived responses
			WriteTimeout:    0,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Storage: StorageConfig{
			Type:        StorageMemory,
			SnapshotTTL: 30 * 24 * time.Hour,
			SQLitePath:  "data/draftboard.db",
		},
		League: model.DefaultSettings(),
		Strategy: StrategyConfig{
			Timeout: 2 * time.Second,
		},
		Autosave: AutosaveConfig{
			QuietPeriod: 500 * time.Millisecond,
		},
		NATS: NATSConfig{
			SubjectPrefix: "draftboard.events",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), a .env file in the working directory and the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.League = cfg.League.Normalize()
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("DRAFTBOARD_SESSION_ID", &c.SessionID)
	str("LOG_LEVEL", &c.LogLevel)
	str("DRAFTBOARD_HOST", &c.Server.Host)
	str("STORAGE_TYPE", &c.Storage.Type)
	str("REDIS_URL", &c.Storage.RedisURL)
	str("SQLITE_PATH", &c.Storage.SQLitePath)
	str("NATS_URL", &c.NATS.URL)
	str("DRAFTBOARD_STRATEGY_URL", &c.Strategy.RemoteURL)
	str("DRAFTBOARD_STRATEGY_TOKEN", &c.Strategy.Token)
	str("DRAFTBOARD_PASSWORD_HASH", &c.Auth.PasswordHash)
	str("DRAFTBOARD_RANKINGS", &c.RankingsPath)

	if v, ok := lookup("DRAFTBOARD_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DRAFTBOARD_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("DRAFTBOARD_ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("DRAFTBOARD_STRATEGY_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DRAFTBOARD_STRATEGY_TIMEOUT %q: %w", v, err)
		}
		c.Strategy.Timeout = d
	}
	return nil
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return errors.New("session_id is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite")
		}
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis or sqlite", c.Storage.Type)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Strategy.Timeout <= 0 {
		return fmt.Errorf("strategy timeout must be positive, got %s", c.Strategy.Timeout)
	}
	return c.League.Validate()
}

// ParseLevel maps a LOG_LEVEL value to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
}
