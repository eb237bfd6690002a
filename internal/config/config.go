package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration

	DB      DatabaseConfig
	Redis   RedisConfig
	Session SessionConfig
	Kafka   KafkaConfig
	SSE     SSEConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains relational store connection parameters.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig controls the browser session cookie and flash message lifetime.
type SessionConfig struct {
	CookieName string
	FlashTTL   time.Duration
}

// KafkaConfig contains the inventory event publisher settings.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SSEConfig contains live event stream settings.
type SSEConfig struct {
	PingInterval time.Duration
}

// WorkerConfig controls background job intervals.
type WorkerConfig struct {
	StatsInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. Defaults reproduce the
// fixed local MySQL setup the inventory was first deployed with.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "5001")
	cfg.Env = getEnv("ENV", "development")

	// Database
	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMySQL))
	cfg.DB = DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", defaultDBPort(driver)),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "e-waste"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		Path:     getEnv("DB_PATH", "e-waste.db"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Kafka
	cfg.Kafka = KafkaConfig{
		Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
		Topic:   getEnv("KAFKA_TOPIC", "inventory-events"),
	}

	cfg.Session.CookieName = getEnv("SESSION_COOKIE", "ewaste_session")

	// Durations
	var err error
	if cfg.Session.FlashTTL, err = parseDurationEnv("FLASH_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid FLASH_TTL: %w", err)
	}
	if cfg.SSE.PingInterval, err = parseDurationEnv("SSE_PING_INTERVAL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid SSE_PING_INTERVAL: %w", err)
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.Worker.StatsInterval, err = parseDurationEnv("STATS_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}

	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if cfg.Kafka.Topic == "" && len(cfg.Kafka.Brokers) > 0 {
		return nil, errors.New("KAFKA_TOPIC must be set when KAFKA_BROKERS is configured")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c DatabaseConfig) validate() error {
	switch c.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Host == "" || c.User == "" || c.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("DB_PATH must be set for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", c.Driver)
	}
	return nil
}

func defaultDBPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
