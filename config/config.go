package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Zoom     ZoomConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env string // "development" or "production"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/webinar?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ZoomConfig holds Zoom API credentials and outbound call settings.
type ZoomConfig struct {
	APIKey            string
	APISecret         string
	BaseURL           string
	TokenTTLSeconds   int
	RequestsPerSecond int
	HTTPTimeoutSec    int
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Production reports whether the process runs with production settings.
// Upstream request/response logging is suppressed in production.
func (c AppConfig) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment, with optional .env file.
// Zoom credentials are required; Load fails without them.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "webinar_registration"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Zoom: ZoomConfig{
			APIKey:            getEnv("ZOOM_API_KEY", ""),
			APISecret:         getEnv("ZOOM_API_SECRET", ""),
			BaseURL:           getEnv("ZOOM_BASE_URL", "https://api.zoom.us/v2"),
			TokenTTLSeconds:   getEnvInt("ZOOM_TOKEN_TTL_SEC", 5),
			RequestsPerSecond: getEnvInt("ZOOM_RATE_LIMIT_RPS", 30),
			HTTPTimeoutSec:    getEnvInt("ZOOM_HTTP_TIMEOUT_SEC", 10),
		},
	}

	if cfg.Zoom.APIKey == "" || cfg.Zoom.APISecret == "" {
		return nil, fmt.Errorf("config: ZOOM_API_KEY and ZOOM_API_SECRET are required")
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
