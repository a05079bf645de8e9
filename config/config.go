package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	API        APIConfig        `yaml:"api"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Log        LogConfig        `yaml:"log"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                   int      `yaml:"port"`
	RateLimitPerSec        float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst         int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds        int      `yaml:"cache_ttl_seconds"`
	CORSOrigins            []string `yaml:"cors_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// StorageConfig selects and configures the persistent store backend.
type StorageConfig struct {
	Driver                 string `yaml:"driver"`
	SQLitePath             string `yaml:"sqlite_path"`
	DSN                    string `yaml:"dsn"`
	RedisAddr              string `yaml:"redis_addr"`
	RedisPassword          string `yaml:"redis_password"`
	RedisDB                int    `yaml:"redis_db"`
	KeyPrefix              string `yaml:"key_prefix"`
	ReconcileOnStart       bool   `yaml:"reconcile_on_start"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// APIConfig controls the data access layer.
type APIConfig struct {
	LatencyMS int           `yaml:"latency_ms"`
	Latency   time.Duration `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the drag commit worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// RefreshConfig controls the periodic reload of the reactive stores.
type RefreshConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WebSocketConfig configures the live event hub.
type WebSocketConfig struct {
	SendBuffer int `yaml:"send_buffer"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides file settings with environment variables, so that
// secrets can live in the environment or a .env file.
func (c *Config) ApplyEnv() {
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("DATABASE_DSN", c.Storage.DSN)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = getEnv("REDIS_PASSWORD", c.Storage.RedisPassword)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("ignoring %s=%q: not an integer", key, value)
		return defaultValue
	}
	return n
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills zero values with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 5
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 5
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/dashboard.db"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "db_"
	}

	if c.API.LatencyMS < 0 {
		c.API.LatencyMS = 0
	}
	c.API.Latency = time.Duration(c.API.LatencyMS) * time.Millisecond

	if c.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		c.WorkerPool.Size = 1
	}

	if c.Refresh.IntervalSeconds <= 0 {
		c.Refresh.IntervalSeconds = 30
	}
	c.Refresh.Interval = time.Duration(c.Refresh.IntervalSeconds) * time.Second

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.WebSocket.SendBuffer <= 0 {
		c.WebSocket.SendBuffer = 64
	}
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
