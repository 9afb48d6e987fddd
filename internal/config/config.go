// Package config provides application configuration loaded from environment variables.
// Use the package-level Get() function to obtain the singleton Config instance.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sub-config structs
// ──────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // e.g. "8080"
	Env            string        // "development" | "production"
	ReadTimeout    time.Duration // default 10s
	WriteTimeout   time.Duration // default 10s
	AllowedOrigins []string      // CORS + WS origins; empty = allow all
	RateLimitRPS   int           // per-IP limit on mutating routes, default 20
	RateLimitBurst int           // bucket capacity; 0 = max(10, RateLimitRPS)
}

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StorageConfig selects and configures the snapshot store behind the
// persistence gateway.
type StorageConfig struct {
	Driver      string        // memory | sqlite | postgres | redis
	SQLitePath  string        // default "data/raceledger.db"
	PostgresDSN string        // required for postgres
	RedisAddr   string        // default "localhost:6379"
	RedisDB     int           // default 0
	KeyPrefix   string        // redis key namespace, default "raceledger:"
	Timeout     time.Duration // per-operation deadline, default 2s
}

// SchedulerConfig holds the background loop intervals.
type SchedulerConfig struct {
	SummaryInterval time.Duration // WS summary push, default 5s
	ResyncInterval  time.Duration // full snapshot rewrite, default 1m
}

// SessionConfig holds the local session stub settings.
type SessionConfig struct {
	UserID string // operator id recorded at startup, default "local"
}

// ──────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ──────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for the entire application.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Session   SessionConfig
}

// IsProd returns true when running in the production environment.
func (c *Config) IsProd() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN must be set when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH must not be empty"))
	}
	if c.Scheduler.SummaryInterval <= 0 {
		errs = append(errs, errors.New("SUMMARY_INTERVAL must be positive"))
	}
	if c.Scheduler.ResyncInterval <= 0 {
		errs = append(errs, errors.New("RESYNC_INTERVAL must be positive"))
	}
	if c.Server.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.Server.RateLimitRPS))
	}
	if c.Server.RateLimitBurst < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must not be negative, got %d", c.Server.RateLimitBurst))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Singleton
// ──────────────────────────────────────────────────────────────────────────────

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Get returns the singleton Config, loading it once from environment variables.
// Panics if loading fails. Call this early in main() to catch misconfigurations
// at startup.
func Get() *Config {
	once.Do(func() {
		instance, loadErr = Load()
	})
	if loadErr != nil {
		panic(fmt.Sprintf("config: failed to load: %v", loadErr))
	}
	return instance
}

// MustLoad loads and validates configuration. Intended for use in main().
func MustLoad() *Config {
	cfg := Get()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: validation failed: %v", err))
	}
	return cfg
}

// ──────────────────────────────────────────────────────────────────────────────
// Loader
// ──────────────────────────────────────────────────────────────────────────────

// Load reads a fresh Config from the environment without touching the singleton.
func Load() (*Config, error) {
	cfg := &Config{}

	// ── Server ────────────────────────────────────────────────────────────────
	rps, err := getInt("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	burst, err := getInt("RATE_LIMIT_BURST", 0)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	cfg.Server = ServerConfig{
		Port:           getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("ENVIRONMENT", "development"),
		ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		AllowedOrigins: getList("ALLOWED_ORIGINS"),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	cfg.Storage = StorageConfig{
		Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:  getEnv("SQLITE_PATH", "data/raceledger.db"),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     redisDB,
		KeyPrefix:   getEnv("STORAGE_KEY_PREFIX", "raceledger:"),
		Timeout:     getDuration("STORAGE_TIMEOUT", 2*time.Second),
	}

	// ── Scheduler ─────────────────────────────────────────────────────────────
	cfg.Scheduler = SchedulerConfig{
		SummaryInterval: getDuration("SUMMARY_INTERVAL", 5*time.Second),
		ResyncInterval:  getDuration("RESYNC_INTERVAL", time.Minute),
	}

	// ── Session ───────────────────────────────────────────────────────────────
	cfg.Session = SessionConfig{
		UserID: getEnv("SESSION_USER_ID", "local"),
	}

	return cfg, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper functions
// ──────────────────────────────────────────────────────────────────────────────

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

// getList splits a comma-separated env var, dropping blanks.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getDuration parses an env var as a Go duration string (e.g. "15m", "2s").
// Falls back to defaultVal if the variable is unset or unparsable.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
