package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Path to SQLite database file (default: ./lendpool.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	TokenTTL        time.Duration // Bearer token lifetime (default: 168h)
	SessionTTL      time.Duration // Server-side session lifetime (default: 168h)
	SessionCookie   string        // Session cookie name (default: lendpool_session)
	CookieSecure    bool          // Mark the session cookie Secure (default: false for dev)
	VerificationTTL time.Duration // Email verification code lifetime (default: 15m)

	SMTPHost     string // SMTP host; empty disables mail and logs codes instead
	SMTPPort     int    // SMTP port (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // From address for verification mail
	SMTPTLS      bool   // Require TLS (default: true when host set)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("LENDPOOL_DATABASE_FILE", "lendpool.db"),
		PepperFile:   getEnvOrDefault("LENDPOOL_PEPPER_FILE", "pepper"),

		TokenTTL:        getEnvDurationOrDefault("TOKEN_TTL", 168*time.Hour),
		SessionTTL:      getEnvDurationOrDefault("SESSION_TTL", 168*time.Hour),
		SessionCookie:   getEnvOrDefault("LENDPOOL_SESSION_COOKIE", "lendpool_session"),
		CookieSecure:    getEnvBoolOrDefault("LENDPOOL_COOKIE_SECURE", false),
		VerificationTTL: getEnvDurationOrDefault("VERIFICATION_TTL", 15*time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPTLS:      getEnvBoolOrDefault("SMTP_TLS", true),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
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

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
