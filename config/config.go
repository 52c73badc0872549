package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	// Target broker (management API)
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	Username string `validate:"required"`
	Password string
	AMQPPort string `validate:"required,numeric"`

	// Source broker, used when shovelling queues into the target
	SourceHost     string
	SourcePort     string `validate:"required,numeric"`
	SourceUsername string
	SourcePassword string
	SourceAMQPPort string `validate:"required,numeric"`

	// Client
	Timeout time.Duration `validate:"gte=0"`

	// Storage
	DataDir     string `validate:"required"`
	MetricsFile string

	// Output
	Output  string `validate:"oneof=table json yaml"`
	Version string

	// Logging
	LogLevel string `validate:"oneof=trace debug info warn error fatal panic disabled"`
}

// LoadConfig loads configuration from .env file, environment variables, or defaults
// Priority: environment variables > .env file > default values
func LoadConfig(version string) *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	return &Config{
		Host:     getEnv("BROKERADMIN_HOST", "localhost"),
		Port:     getEnv("BROKERADMIN_PORT", "15672"),
		Username: getEnv("BROKERADMIN_USERNAME", "guest"),
		Password: getEnv("BROKERADMIN_PASSWORD", "guest"),
		AMQPPort: getEnv("BROKERADMIN_AMQP_PORT", "5672"),

		SourceHost:     getEnv("BROKERADMIN_SOURCE_HOST", ""),
		SourcePort:     getEnv("BROKERADMIN_SOURCE_PORT", "15672"),
		SourceUsername: getEnv("BROKERADMIN_SOURCE_USERNAME", "guest"),
		SourcePassword: getEnv("BROKERADMIN_SOURCE_PASSWORD", "guest"),
		SourceAMQPPort: getEnv("BROKERADMIN_SOURCE_AMQP_PORT", "5672"),

		Timeout: time.Duration(getEnvAsInt("BROKERADMIN_TIMEOUT", 30)) * time.Second,

		DataDir:     getEnv("BROKERADMIN_DATA_DIR", "data"),
		MetricsFile: getEnv("BROKERADMIN_METRICS_FILE", ""),

		Output:  getEnv("BROKERADMIN_OUTPUT", "table"),
		Version: version,

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the loaded values before any broker is contacted.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// HasSource reports whether a source broker is configured.
func (c *Config) HasSource() bool {
	return c.SourceHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s: %s, using default: %d\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
