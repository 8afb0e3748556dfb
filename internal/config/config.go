package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

const (
	// StoreMemory keeps users and tasks in process memory.
	StoreMemory = "memory"
	// StoreMySQL keeps users and tasks in MySQL through GORM.
	StoreMySQL = "mysql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	StoreDriver     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	RateLimitMax    int
	RateLimitWindow time.Duration
	LogLevel        string
	SwaggerHost     string
}

// Load builds Config from environment with sensible defaults.
// The signing secret has no default.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", getEnv("PORT", "3000")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenTTL:        getEnvDuration("TOKEN_TTL", time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		StoreDriver:     getEnv("STORE_DRIVER", StoreMemory),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/tasks?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.StoreDriver != StoreMemory && cfg.StoreDriver != StoreMySQL {
		return nil, errors.New("STORE_DRIVER must be memory or mysql")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
