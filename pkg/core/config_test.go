package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.Sandbox)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 0, config.MaxRetries)
	assert.Equal(t, int64(0), config.RecvWindow)
	assert.Equal(t, 6000, config.RateLimitWeight)
	assert.Equal(t, time.Minute, config.RateLimitPeriod)
	assert.Equal(t, 50, config.OrderRateLimit)
	assert.Equal(t, 10*time.Second, config.OrderRateLimitPeriod)
	assert.False(t, config.CircuitBreakerEnabled)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid_config",
			modify: func(*Config) {},
		},
		{
			name:    "invalid_timeout",
			modify:  func(c *Config) { c.Timeout = -1 * time.Second },
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "negative_max_retries",
			modify:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: true,
			errMsg:  "MaxRetries",
		},
		{
			name:    "recv_window_too_large",
			modify:  func(c *Config) { c.RecvWindow = 60001 },
			wantErr: true,
			errMsg:  "RecvWindow",
		},
		{
			name:    "invalid_base_url",
			modify:  func(c *Config) { c.BaseURL = "not a url" },
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "invalid_log_level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
			errMsg:  "LogLevel",
		},
		{
			name:    "rate_limit_without_period",
			modify:  func(c *Config) { c.RateLimitPeriod = 0 },
			wantErr: true,
			errMsg:  "RateLimitPeriod",
		},
		{
			name: "rate_limit_disabled",
			modify: func(c *Config) {
				c.RateLimitWeight = 0
				c.RateLimitPeriod = 0
				c.OrderRateLimit = 0
				c.OrderRateLimitPeriod = 0
			},
		},
		{
			name: "invalid_circuit_breaker_fail_threshold",
			modify: func(c *Config) {
				c.WithCircuitBreaker(0, 2, time.Second)
			},
			wantErr: true,
			errMsg:  "CircuitBreakerFailThreshold",
		},
		{
			name: "invalid_circuit_breaker_success_threshold",
			modify: func(c *Config) {
				c.WithCircuitBreaker(5, 0, time.Second)
			},
			wantErr: true,
			errMsg:  "CircuitBreakerSuccessThreshold",
		},
		{
			name: "invalid_circuit_breaker_timeout",
			modify: func(c *Config) {
				c.WithCircuitBreaker(5, 2, 0)
			},
			wantErr: true,
			errMsg:  "CircuitBreakerTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "error %q should mention %q", err, tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Chaining(t *testing.T) {
	creds := &Credentials{APIKey: "key", SecretKey: "secret"}

	config := DefaultConfig().
		WithCredentials(creds).
		WithSandbox(false).
		WithBaseURL("http://127.0.0.1:8080").
		WithTimeout(5*time.Second).
		WithRecvWindow(5000).
		WithRateLimit(1200, time.Minute).
		WithOrderRateLimit(10, time.Second)

	assert.Same(t, creds, config.Credentials)
	assert.False(t, config.Sandbox)
	assert.Equal(t, "http://127.0.0.1:8080", config.BaseURL)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, int64(5000), config.RecvWindow)
	assert.Equal(t, 1200, config.RateLimitWeight)
	assert.Equal(t, 10, config.OrderRateLimit)
	assert.True(t, config.HasCredentials())
}

func TestConfig_HasCredentials(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.HasCredentials())

	config.WithCredentials(&Credentials{APIKey: "key"})
	assert.False(t, config.HasCredentials())

	config.WithCredentials(&Credentials{APIKey: "key", SecretKey: "secret"})
	assert.True(t, config.HasCredentials())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvTestnet, "false")
	t.Setenv(EnvTimeout, "3s")
	t.Setenv(EnvRecvWindow, "7000")
	t.Setenv(EnvLogLevel, "debug")

	config, err := LoadConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.NotNil(t, config.Credentials)
	assert.Equal(t, "env-key", config.Credentials.APIKey)
	assert.Equal(t, "env-secret", config.Credentials.SecretKey)
	assert.False(t, config.Sandbox)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, int64(7000), config.RecvWindow)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigFromEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BINANCE_BASE_URL=http://localhost:9000\n"), 0o600))
	// godotenv never overrides variables that are already present.
	t.Setenv(EnvBaseURL, "")
	require.NoError(t, os.Unsetenv(EnvBaseURL))

	config, err := LoadConfigFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", config.BaseURL)
}

func TestLoadConfigFromEnv_InvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	_, err := LoadConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binance.yaml")
	content := `
sandbox: false
base_url: https://api.binance.com
timeout: 15s
recv_window: 5000
rate_limit_weight: 1200
credentials:
  api_key: file-key
  secret_key: file-secret
log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.False(t, config.Sandbox)
	assert.Equal(t, "https://api.binance.com", config.BaseURL)
	assert.Equal(t, 15*time.Second, config.Timeout)
	assert.Equal(t, int64(5000), config.RecvWindow)
	assert.Equal(t, 1200, config.RateLimitWeight)
	assert.Equal(t, time.Minute, config.RateLimitPeriod)
	assert.Equal(t, "file-key", config.Credentials.APIKey)
	assert.Equal(t, "warn", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
