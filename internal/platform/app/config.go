package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/jwtx"
)

type Config struct {
	// AccessSecret and RefreshSecret sign the two token kinds. Both are
	// required; the service refuses to start without them.
	AccessSecret  string
	RefreshSecret string

	Issuer   string // iss claim (default: SOU2AQ-API)
	Audience string // aud claim (default: SOU2AQ-Users)

	AccessTTL  time.Duration // access token lifetime (default: 24h)
	RefreshTTL time.Duration // refresh token and session lifetime (default: 168h)
	OTPTTL     time.Duration // verification code lifetime (default: 90s)

	DatabaseFile string // path to SQLite database file (default: ./platform.db)

	ResendAPIKey string // optional: Resend API key; log-only sender when empty
	EmailFrom    string // sender address for verification email

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one exists. The two JWT secrets are mandatory.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AccessSecret:  os.Getenv("JWT_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		Issuer:   getEnvOrDefault("JWT_ISSUER", "SOU2AQ-API"),
		Audience: getEnvOrDefault("JWT_AUDIENCE", "SOU2AQ-Users"),

		AccessTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		OTPTTL:     getEnvDurationOrDefault("OTP_TTL", service.DefaultOTPTTL),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "platform.db"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnvOrDefault("EMAIL_FROM", "no-reply@sou2aq.com"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.AccessSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return cfg, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return cfg, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer seconds also accepted
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
