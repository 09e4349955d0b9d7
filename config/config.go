package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Persistence calls are bounded by this timeout; on expiry the operation
	// fails retryable with no partial mutation.
	PersistenceTimeout time.Duration

	// How often the background sweeper purges expired effects
	EffectSweepInterval time.Duration

	// Environment is "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	mu       sync.Mutex
)

// Get returns the global configuration instance, loading it on first use
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		loaded, err := load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		instance = loaded
	}
	return instance
}

// SetTestConfig replaces the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		PersistenceTimeout:  5 * time.Second,
		EffectSweepInterval: time.Minute,
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		PersistenceTimeout:  5 * time.Second,
		EffectSweepInterval: time.Minute,
		Environment:         os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("PERSISTENCE_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.PersistenceTimeout = time.Duration(parsed) * time.Second
		}
	}
	if interval := os.Getenv("EFFECT_SWEEP_INTERVAL_SECONDS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.EffectSweepInterval = time.Duration(parsed) * time.Second
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
