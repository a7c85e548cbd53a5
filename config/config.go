// ABOUTME: Configuration loader for the simulator backend
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, advisory response cache (default 600)
	SessionTTL         int      // seconds, anonymous advisory sessions (default 86400)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Set Secure flag on session cookies (default: true)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAdvisor int  // Requests per minute for the advisory endpoint (default: 5)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)

	// Advisory (optional; missing key runs the simulator without commentary)
	AnthropicAPIKey  string
	AdvisorModel     string
	AdvisorMaxTokens int

	// Result log
	DBPath string // sqlite file path; empty = in-memory
}

// AdvisorConfigured returns true if the hosted-model credentials are set
func (c *Config) AdvisorConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func Load() (*Config, error) {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 600),
		SessionTTL:         getEnvInt("SESSION_TTL", 86400),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAdvisor: getEnvInt("RATE_LIMIT_ADVISOR", 5),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AdvisorModel:     getEnv("ADVISOR_MODEL", "claude-sonnet-4-20250514"),
		AdvisorMaxTokens: getEnvInt("ADVISOR_MAX_TOKENS", 1024),

		DBPath: os.Getenv("DB_PATH"),
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_ADVISOR", cfg.RateLimitAdvisor},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.AdvisorMaxTokens < 1 || cfg.AdvisorMaxTokens > 64000 {
		return nil, fmt.Errorf("ADVISOR_MAX_TOKENS must be between 1 and 64000, got %d", cfg.AdvisorMaxTokens)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.SessionTTL < 60 {
		return nil, fmt.Errorf("SESSION_TTL must be at least 60 seconds, got %d", cfg.SessionTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
