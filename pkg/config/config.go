package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string

	// Chain configuration
	NetworksConfigPath string
	TargetChainID      int64
	TokenContract      string
	WatchAddress       string

	// Refresh cadences
	SilentRefreshInterval time.Duration
	HistoryLimit          int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		NetworksConfigPath:    getEnv("NETWORKS_CONFIG", "networks.yaml"),
		TargetChainID:         int64(getEnvAsInt("TARGET_CHAIN_ID", 1)),
		TokenContract:         getEnv("TOKEN_CONTRACT", ""),
		WatchAddress:          getEnv("WATCH_ADDRESS", ""),
		SilentRefreshInterval: time.Duration(getEnvAsInt("SILENT_REFRESH_SECONDS", 15)) * time.Second,
		HistoryLimit:          getEnvAsInt("HISTORY_LIMIT", 50),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.TargetChainID <= 0 {
		return fmt.Errorf("TARGET_CHAIN_ID must be positive")
	}

	// The token contract may legitimately be a placeholder before deployment,
	// so it is not validated here beyond presence in production.
	if c.TokenContract == "" && c.IsProduction() {
		return fmt.Errorf("TOKEN_CONTRACT is required in production")
	}

	if c.WatchAddress == "" && c.IsProduction() {
		return fmt.Errorf("WATCH_ADDRESS is required in production")
	}

	if c.SilentRefreshInterval < time.Second {
		return fmt.Errorf("SILENT_REFRESH_SECONDS must be at least 1")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
