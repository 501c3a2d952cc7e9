// Package config provides configuration for chatd.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the chatd configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database (durable snapshot slot)
	DatabaseURL string

	// Answering service
	AnswerURL     string
	AnswerAPIKey  string
	AnswerTimeout time.Duration

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:   getEnv("DATABASE_URL", "file:chatd.db?cache=shared&mode=rwc"),
		AnswerURL:     getEnv("ANSWER_URL", "http://localhost:8000"),
		AnswerAPIKey:  getEnv("ANSWER_API_KEY", ""),
		AnswerTimeout: time.Duration(getEnvInt("ANSWER_TIMEOUT_MS", 120000)) * time.Millisecond,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     getEnvBool("LOG_PRETTY", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
