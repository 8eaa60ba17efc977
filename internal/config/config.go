// Package config loads voicemd server configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort            = "8080"
	DefaultLogLevel        = "info"
	DefaultCallTimeout     = 30 * time.Second
	DefaultCallLogCapacity = 1000
)

// Config holds everything the server needs to start.
type Config struct {
	// GroqAPIKey authenticates transcription and completion calls.
	GroqAPIKey string

	// CartesiaAPIKey authenticates speech synthesis calls.
	CartesiaAPIKey string

	// Port is the HTTP listen port.
	Port string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// RedisAddr enables the Redis-backed call log when set (host:port).
	// Empty selects the in-memory store.
	RedisAddr string

	// CallTimeout bounds each outbound API call.
	CallTimeout time.Duration

	// CallLogCapacity bounds the in-memory call log.
	CallLogCapacity int
}

// FromEnv builds a Config from environment variables.
// GROQ_API_KEY and CARTESIA_API_KEY are required.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		CartesiaAPIKey:  os.Getenv("CARTESIA_API_KEY"),
		Port:            getEnv("PORT", DefaultPort),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CallTimeout:     DefaultCallTimeout,
		CallLogCapacity: DefaultCallLogCapacity,
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("config: GROQ_API_KEY environment variable is required")
	}
	if cfg.CartesiaAPIKey == "" {
		return nil, fmt.Errorf("config: CARTESIA_API_KEY environment variable is required")
	}

	if v := os.Getenv("CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid CALL_TIMEOUT %q: %w", v, err)
		}
		cfg.CallTimeout = d
	}

	if v := os.Getenv("CALL_LOG_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid CALL_LOG_CAPACITY %q", v)
		}
		cfg.CallLogCapacity = n
	}

	return cfg, nil
}

// getEnv returns the value of key or fallback if unset.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
