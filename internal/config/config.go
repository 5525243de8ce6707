package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Payload documents
	PayloadDir string

	// Logging
	LogLevel  string
	LogFormat string

	// Table sessions
	TableSessionTTL time.Duration
	TableSessionMax int

	// Rate limiting of table events
	RateLimitPerMinute int

	// Formatting
	Locale   string
	Currency string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		PayloadDir: getEnv("PAYLOAD_DIR", "./data"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		TableSessionTTL: getEnvDuration("TABLE_SESSION_TTL", 30*time.Minute),
		TableSessionMax: getEnvInt("TABLE_SESSION_MAX", 1000),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		Locale:   getEnv("LOCALE", "de-DE"),
		Currency: getEnv("CURRENCY", "€"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.PayloadDir == "" {
		errors = append(errors, "payload directory cannot be empty")
	} else if info, err := os.Stat(c.PayloadDir); err != nil {
		errors = append(errors, fmt.Sprintf("payload directory '%s' is not readable: %v", c.PayloadDir, err))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("payload directory '%s' is not a directory", c.PayloadDir))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.TableSessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid table session TTL %v: must be at least 1 minute", c.TableSessionTTL))
	}
	if c.TableSessionMax < 1 {
		errors = append(errors, fmt.Sprintf("invalid table session max %d: must be at least 1", c.TableSessionMax))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}
	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}
	if strings.TrimSpace(c.Currency) == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
