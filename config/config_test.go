package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "all defaults",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "overridden host and token",
			envVars: map[string]string{
				"LUCIDA_HOST":  "lucida.su",
				"LUCIDA_TOKEN": "custom-token",
			},
			expectError: false,
		},
		{
			name: "invalid poll interval",
			envVars: map[string]string{
				"POLL_INTERVAL": "not_a_duration",
			},
			expectError: true,
			errorMsg:    "invalid POLL_INTERVAL",
		},
		{
			name: "negative poll timeout",
			envVars: map[string]string{
				"POLL_TIMEOUT": "-5m",
			},
			expectError: true,
			errorMsg:    "invalid POLL_TIMEOUT",
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "VERBOSE",
			},
			expectError: true,
			errorMsg:    "invalid configuration",
		},
		{
			name: "host is not a hostname",
			envVars: map[string]string{
				"LUCIDA_HOST": "https://lucida.to/path",
			},
			expectError: true,
			errorMsg:    "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorMsg)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got: %v", tt.errorMsg, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg == nil {
				t.Fatal("expected config, got nil")
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Host != DefaultHost {
		t.Errorf("expected host %q, got %q", DefaultHost, cfg.Host)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("expected poll interval 2s, got %v", cfg.PollInterval)
	}
	if cfg.PollTimeout != 5*time.Minute {
		t.Errorf("expected poll timeout 5m, got %v", cfg.PollTimeout)
	}
	if cfg.TokenTTL != 30*24*time.Hour {
		t.Errorf("expected token TTL 720h, got %v", cfg.TokenTTL)
	}
	if cfg.FallbackPrefix != "tidal" {
		t.Errorf("expected fallback prefix tidal, got %q", cfg.FallbackPrefix)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("expected log level INFO, got %q", cfg.LogLevel)
	}
}

func TestEnvValidatorGetDuration(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		fallback    time.Duration
		expected    time.Duration
		expectError bool
	}{
		{name: "unset uses fallback", value: "", fallback: 2 * time.Second, expected: 2 * time.Second},
		{name: "valid duration", value: "10s", fallback: 2 * time.Second, expected: 10 * time.Second},
		{name: "minutes", value: "5m", fallback: time.Second, expected: 5 * time.Minute},
		{name: "garbage", value: "soon", fallback: time.Second, expectError: true},
		{name: "zero", value: "0s", fallback: time.Second, expectError: true},
	}

	env := NewEnvValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_DURATION", tt.value)
			}

			d, err := env.GetDuration("TEST_DURATION", tt.fallback)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, d)
			}
		})
	}
}
