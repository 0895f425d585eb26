package app

import (
	"os"
	"strconv"
	"time"

	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/jwtx"
)

type Config struct {
	Issuer    string // Optional: issuer claim for access tokens (default: authapi)
	JWTSecret string // Required: HMAC signing secret, at least 32 bytes

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	AppURL       string // Optional: frontend base URL reset links point at (default: http://localhost:4200)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 10s)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 24h)
	ResetTokenTTL   time.Duration // Optional: reset token lifetime (default: 10m)

	SMTPHost     string // Required for reset emails: SMTP server host
	SMTPPort     int    // Optional: SMTP server port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // Optional: From address on outgoing mail (default: no-reply@localhost)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "authapi"),
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		AppURL:       getEnvOrDefault("AUTH_APP_URL", "http://localhost:4200"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", service.DefaultRefreshTokenTTL),
		ResetTokenTTL:   getEnvDurationOrDefault("AUTH_RESET_TOKEN_TTL", service.DefaultResetTokenTTL),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
