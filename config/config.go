// config/config.go - Environment configuration
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

const minSecretLength = 32

// Config holds everything the server reads from the environment.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL string

	CORSOrigins string

	RateLimitEnabled     bool
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	AuthRateLimitMax     int
	AuthRateLimitWindow  time.Duration

	GateTTL time.Duration
}

// Load reads an optional .env file and builds a Config from the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is fine, system environment variables still apply
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: DatabaseURL(),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 720)) * time.Hour,
		RedisURL:    os.Getenv("REDIS_URL"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		RateLimitEnabled:     !isFalse(os.Getenv("RATE_LIMIT_ENABLED")),
		RateLimitMaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		AuthRateLimitMax:     getEnvInt("AUTH_RATE_LIMIT_MAX", 5),
		AuthRateLimitWindow:  time.Duration(getEnvInt("AUTH_RATE_LIMIT_WINDOW_MS", 300000)) * time.Millisecond,

		GateTTL: time.Duration(getEnvInt("GATE_TTL_MINUTES", 30)) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set, generate one with: openssl rand -base64 64")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minSecretLength)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = 15 * time.Minute
	}
	if c.AuthRateLimitWindow <= 0 {
		c.AuthRateLimitWindow = 5 * time.Minute
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DatabaseURL returns DATABASE_URL or a DSN assembled from the DB_* variables.
func DatabaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	// Fallback to individual parameters
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "eventhub")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func isFalse(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "false" || val == "0" || val == "no"
}
