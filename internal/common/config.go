package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Form    FormConfig
	Session SessionConfig
	Audit   AuditConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// LLMConfig holds mapping-service configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// FormConfig holds form-template configuration
type FormConfig struct {
	TemplatePath string
	OutputDir    string
}

// SessionConfig holds session-store configuration
type SessionConfig struct {
	TTL time.Duration
}

// AuditConfig holds the optional audit-log configuration.
// An empty DSN disables auditing.
type AuditConfig struct {
	DSN string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Form: FormConfig{
			TemplatePath: getEnv("W7_TEMPLATE_PATH", "w7.pdf"),
			OutputDir:    getEnv("OUTPUT_DIR", os.TempDir()),
		},
		Session: SessionConfig{
			TTL: getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Audit: AuditConfig{
			DSN: getEnv("AUDIT_DB_URL", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", 0, ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", 0, ErrInvalidInput)
	}
	if c.Form.TemplatePath == "" {
		return NewAppError("CONFIG_ERROR", "W7_TEMPLATE_PATH is required", 0, ErrInvalidInput)
	}
	return nil
}
