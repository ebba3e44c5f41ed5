// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr         string
	DBPath             string
	SecretKey          []byte
	APIBaseURL         string
	RequestTimeout     time.Duration
	RateLimitPerMin    int
	BreakerMaxFailures uint32
	LogLevel           string
	LogFormat          string
	LogOutput          string
}

// HasSecretKey returns true when an encryption key was supplied. Without one
// the credential store is disabled and no API key can be saved.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. TEXTENHANCE_SECRET_KEY, when set, must be 64 hex
// characters (an AES-256 key). Defaults: TEXTENHANCE_LISTEN_ADDR (127.0.0.1:8080),
// TEXTENHANCE_DB_PATH (textenhance.db), TEXTENHANCE_API_BASE_URL
// (https://api.deepseek.com/v1), TEXTENHANCE_REQUEST_TIMEOUT (60s),
// TEXTENHANCE_RATE_LIMIT_PER_MIN (30), TEXTENHANCE_BREAKER_MAX_FAILURES (5),
// TEXTENHANCE_LOG_LEVEL (info), TEXTENHANCE_LOG_FORMAT (text),
// TEXTENHANCE_LOG_OUTPUT (stderr).
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         lookup("TEXTENHANCE_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:             lookup("TEXTENHANCE_DB_PATH", "textenhance.db"),
		APIBaseURL:         strings.TrimRight(lookup("TEXTENHANCE_API_BASE_URL", "https://api.deepseek.com/v1"), "/"),
		RequestTimeout:     60 * time.Second,
		RateLimitPerMin:    30,
		BreakerMaxFailures: 5,
		LogLevel:           strings.ToLower(lookup("TEXTENHANCE_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(lookup("TEXTENHANCE_LOG_FORMAT", "text")),
		LogOutput:          lookup("TEXTENHANCE_LOG_OUTPUT", "stderr"),
	}

	if v, ok := os.LookupEnv("TEXTENHANCE_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("TEXTENHANCE_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("TEXTENHANCE_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SecretKey = key
	}

	if v, ok := os.LookupEnv("TEXTENHANCE_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TEXTENHANCE_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("TEXTENHANCE_REQUEST_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.RequestTimeout = parsed
	}

	if v, ok := os.LookupEnv("TEXTENHANCE_RATE_LIMIT_PER_MIN"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TEXTENHANCE_RATE_LIMIT_PER_MIN has invalid integer %q: %w", v, err)
		}
		cfg.RateLimitPerMin = n
	}

	if v, ok := os.LookupEnv("TEXTENHANCE_BREAKER_MAX_FAILURES"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("TEXTENHANCE_BREAKER_MAX_FAILURES must be a positive integer, got %q", v)
		}
		cfg.BreakerMaxFailures = uint32(n)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("TEXTENHANCE_LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("TEXTENHANCE_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
