package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	RetellAPIKey    string
	RetellBaseURL   string
	UpstreamTimeout time.Duration // zero means no client timeout

	Location    *time.Location
	PhoneRegion string

	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	PushInterval   time.Duration // zero disables periodic snapshot pushes

	RequireAuthFlag bool

	SentryDSN         string
	SentryEnvironment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "local"),
		RetellAPIKey:   os.Getenv("RETELL_API_KEY"),
		RetellBaseURL:  getEnv("RETELL_BASE_URL", "https://api.retellai.com/v2"),
		PhoneRegion:    strings.ToUpper(getEnv("PHONE_REGION", "US")),
	}

	upstreamTimeout, err := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT", "0"))
	if err != nil || upstreamTimeout < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q: must be a non-negative number of seconds", os.Getenv("UPSTREAM_TIMEOUT"))
	}
	config.UpstreamTimeout = time.Duration(upstreamTimeout) * time.Second

	loc, err := time.LoadLocation(getEnv("DASHBOARD_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_TIMEZONE: %w", err)
	}
	config.Location = loc

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	if wsReadTimeout < 1 {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT %d: must be at least 1 second", wsReadTimeout)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	if wsWriteTimeout < 1 {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT %d: must be at least 1 second", wsWriteTimeout)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	pushInterval, err := strconv.Atoi(getEnv("DASHBOARD_PUSH_INTERVAL", "0"))
	if err != nil || pushInterval < 0 {
		return nil, fmt.Errorf("invalid DASHBOARD_PUSH_INTERVAL %q: must be a non-negative number of seconds", os.Getenv("DASHBOARD_PUSH_INTERVAL"))
	}
	config.PushInterval = time.Duration(pushInterval) * time.Second

	requireAuth, err := strconv.ParseBool(getEnv("REQUIRE_AUTH_FLAG", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUIRE_AUTH_FLAG: %w", err)
	}
	config.RequireAuthFlag = requireAuth

	config.SentryDSN = os.Getenv("SENTRY_DSN")
	config.SentryEnvironment = getEnv("SENTRY_ENVIRONMENT", config.Environment)

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// IsLocal reports whether the service runs on a developer machine
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
