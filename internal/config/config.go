package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const PROD_STRING = "prod"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	// TrustedProxies is a comma-separated CIDR list; empty means client IPs come from the socket.
	TrustedProxies string

	StorageDriver string
	DBDSN         string
	DBMaxConns    int

	// JWTSecret enables bearer-token identity when non-empty.
	JWTSecret         string
	JWTAccessTokenTTL time.Duration

	LogLevel string
	LogFile  string

	RedisURL  string
	RateLimit string

	AMQPURL      string
	AMQPExchange string

	UploadDir      string
	UploadMaxBytes int64

	BookingRejectOverlap  bool
	StrictForbiddenStatus bool
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Reverse proxies allowed to set X-Forwarded-For (default: none)
	cfg.TrustedProxies = getEnv("TRUSTED_PROXIES", "")

	// Entity store (default: postgres)
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", DriverPostgres)
	switch cfg.StorageDriver {
	case DriverPostgres:
		// Database DSN is required
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %s or %s", cfg.StorageDriver, DriverPostgres, DriverMemory)
	}

	cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	// JWT secret is optional; without it callers are identified by header only
	cfg.JWTSecret = os.Getenv("AUTH_JWT_SECRET")

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("AUTH_JWT_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWT_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "")

	// Rate limiting is disabled unless RATE_LIMIT is set (e.g. "100-M")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RateLimit = getEnv("RATE_LIMIT", "")

	// Booking events are published only when AMQP_URL is set
	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", "shareit.bookings")

	cfg.UploadDir = getEnv("UPLOAD_DIR", "./uploads")
	maxBytes, err := getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	cfg.BookingRejectOverlap, err = getEnvAsBool("BOOKING_REJECT_OVERLAP", false)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REJECT_OVERLAP: %w", err)
	}

	cfg.StrictForbiddenStatus, err = getEnvAsBool("STRICT_FORBIDDEN_STATUS", false)
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_FORBIDDEN_STATUS: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsBool retrieves an environment variable as a boolean (strconv.ParseBool syntax).
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}

	return val, nil
}
