package config

import (
	"fmt"
	"os"
	"time"
)

// EnvValidator handles typed reads of environment variables with defaults
type EnvValidator struct{}

// NewEnvValidator creates a new environment validator instance
func NewEnvValidator() *EnvValidator {
	return &EnvValidator{}
}

// GetString returns the value of the environment variable or the fallback when unset
func (e *EnvValidator) GetString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetDuration returns the environment variable parsed as a time.Duration
// Returns an error when the variable is set but does not parse
func (e *EnvValidator) GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration (e.g. 2s, 5m), got: %s", key, value)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got: %s", key, value)
	}

	return d, nil
}
