package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultHost           = "lucida.to"
	DefaultToken          = "g-dQ7ptFr5_PIBqGmYk0mpMJkhI"
	DefaultTokenTTL       = 30 * 24 * time.Hour
	DefaultFallbackPrefix = "tidal"
	DefaultPollInterval   = 2 * time.Second
	DefaultPollTimeout    = 5 * time.Minute
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"
)

// Config holds all configuration values for the ripper
type Config struct {
	Host           string        `validate:"required,hostname"` // Conversion service host
	Token          string        `validate:"required"`          // Pre-shared service token
	TokenTTL       time.Duration `validate:"gt=0"`              // Forward expiry attached to the token
	FallbackPrefix string        `validate:"required"`          // Filename prefix when metadata is missing
	PollInterval   time.Duration `validate:"gt=0"`              // Delay between job status polls
	PollTimeout    time.Duration `validate:"gt=0"`              // Wall-clock limit for the polling phase
	UserAgent      string        `validate:"required"`          // Browser-like UA the service expects
	LogLevel       string        `validate:"oneof=DEBUG INFO WARN ERROR"`
}

var validate = validator.New()

// LoadConfig loads and validates the ripper configuration from environment variables
// Returns a Config struct or an error if validation fails
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}

	env := NewEnvValidator()

	pollInterval, err := env.GetDuration("POLL_INTERVAL", DefaultPollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}

	pollTimeout, err := env.GetDuration("POLL_TIMEOUT", DefaultPollTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_TIMEOUT: %w", err)
	}

	tokenTTL, err := env.GetDuration("LUCIDA_TOKEN_TTL", DefaultTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid LUCIDA_TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Host:           env.GetString("LUCIDA_HOST", DefaultHost),
		Token:          env.GetString("LUCIDA_TOKEN", DefaultToken),
		TokenTTL:       tokenTTL,
		FallbackPrefix: env.GetString("FALLBACK_PREFIX", DefaultFallbackPrefix),
		PollInterval:   pollInterval,
		PollTimeout:    pollTimeout,
		UserAgent:      env.GetString("USER_AGENT", DefaultUserAgent),
		LogLevel:       env.GetString("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs struct-level validation on the loaded configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid configuration: field %s failed %q validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
