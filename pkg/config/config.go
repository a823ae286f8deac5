// Package config provides environment-based configuration for the event planner API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the API server.
type Config struct {
	// Storage
	StoreDriver    string
	DatabaseDSN    string
	DBMaxOpenConns int
	AutoMigrate    bool

	// Authentication
	JWTSecret string
	JWTExpiry time.Duration

	// Server configuration
	APIHost            string
	APIPort            int
	ShutdownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string

	// EventTimezone is applied to event dates sent without a zone.
	EventTimezone string

	// Logging
	LogLevel  string
	LogFormat string

	AI AIConfig
}

// AIConfig holds the text generation upstream settings.
type AIConfig struct {
	Enabled bool
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := fromEnv("")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It does not validate required fields, useful for testing.
func LoadWithDefaults() *Config {
	return fromEnv("development-secret-key-min-32-chars")
}

func fromEnv(defaultSecret string) *Config {
	return &Config{
		StoreDriver:        getEnv("STORE_DRIVER", DriverPostgres),
		DatabaseDSN:        getEnv("DATABASE_URL", "postgres://localhost:5432/eventplanner?sslmode=disable"),
		DBMaxOpenConns:     getIntEnv("DB_MAX_OPEN_CONNS", 25),
		AutoMigrate:        getBoolEnv("AUTO_MIGRATE", true),
		JWTSecret:          getEnv("JWT_SECRET", defaultSecret),
		JWTExpiry:          getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		APIHost:            getEnv("API_HOST", "0.0.0.0"),
		APIPort:            getIntEnv("API_PORT", 8080),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 60*time.Second),
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		EventTimezone:      getEnv("EVENT_TIMEZONE", "UTC"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		AI: AIConfig{
			Enabled: getBoolEnv("AI_ENABLED", true),
			APIURL:  getEnv("AI_API_URL", "https://api.anthropic.com/v1/messages"),
			APIKey:  getEnv("AI_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "claude-sonnet-4-20250514"),
			Timeout: getDurationEnv("AI_TIMEOUT", 30*time.Second),
		},
	}
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.StoreDriver != DriverPostgres && c.StoreDriver != DriverMemory {
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("EVENT_TIMEZONE: %w", err)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	if c.ShutdownTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT and REQUEST_TIMEOUT must be positive")
	}
	if c.AI.Enabled && c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	return nil
}

// Location resolves EventTimezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.EventTimezone)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
