package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Payment processors the server can use.
const (
	ProcessorMemory = "memory"
	ProcessorSquare = "square"
)

// Square environments.
const (
	SquareSandbox    = "sandbox"
	SquareProduction = "production"
)

// Config holds all configuration for the API server
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Payment  PaymentConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	CORSOrigins     []string
}

// PaymentConfig selects the processor behind orders and payments.
type PaymentConfig struct {
	Processor string
	Square    SquareConfig
}

type SquareConfig struct {
	Environment           string
	AccessTokenSandbox    string
	AccessTokenProduction string
	LocationID            string
}

// AccessToken returns the token for the configured environment.
func (s SquareConfig) AccessToken() string {
	if s.Environment == SquareProduction {
		return s.AccessTokenProduction
	}
	return s.AccessTokenSandbox
}

// StorefrontConfig holds the ordering client's configuration. None of it is
// secret: the application and location ids are public identifiers.
type StorefrontConfig struct {
	APIBaseURL     string
	ApplicationID  string
	LocationID     string
	GatewayTimeout time.Duration
	LogLevel       string
}

// Load reads the server configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Payment: PaymentConfig{
			Processor: strings.ToLower(getEnv("PAYMENT_PROCESSOR", ProcessorMemory)),
			Square: SquareConfig{
				Environment:           strings.ToLower(getEnv("SQUARE_ENVIRONMENT", SquareSandbox)),
				AccessTokenSandbox:    getEnv("SQUARE_ACCESS_TOKEN_SANDBOX", ""),
				AccessTokenProduction: getEnv("SQUARE_ACCESS_TOKEN_PRODUCTION", ""),
				LocationID:            getEnv("SQUARE_LOCATION_ID", ""),
			},
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Payment.Processor {
	case ProcessorMemory:
	case ProcessorSquare:
		env := c.Payment.Square.Environment
		if env != SquareSandbox && env != SquareProduction {
			return fmt.Errorf("invalid SQUARE_ENVIRONMENT: %s (must be sandbox or production)", env)
		}
		if c.Payment.Square.AccessToken() == "" {
			return fmt.Errorf("square access token for %s environment is required", env)
		}
	default:
		return fmt.Errorf("invalid PAYMENT_PROCESSOR: %s (must be memory or square)", c.Payment.Processor)
	}

	return nil
}

// LoadStorefront reads the ordering client configuration from environment variables
func LoadStorefront() (*StorefrontConfig, error) {
	loadDotEnv()

	cfg := &StorefrontConfig{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		ApplicationID:  getEnv("SQUARE_APPLICATION_ID", ""),
		LocationID:     getEnv("SQUARE_LOCATION_ID", ""),
		GatewayTimeout: getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Missing payment ids are
// not an error here: the payment form reports them when checkout starts.
func (c *StorefrontConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("invalid API_BASE_URL: %s (must be an http or https URL)", c.APIBaseURL)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	return validateLogLevel(c.LogLevel)
}

func validateLogLevel(level string) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// loadDotEnv reads a local .env outside production. A missing file is fine.
func loadDotEnv() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

// Helper functions for reading environment variables

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
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("15s") or plain seconds ("15").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
