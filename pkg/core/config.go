package core

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxRecvWindow is the largest recvWindow, in milliseconds, the exchange accepts.
const MaxRecvWindow = 60000

// Credentials holds API authentication credentials.
type Credentials struct {
	// APIKey is sent in the X-MBX-APIKEY header.
	APIKey string `json:"api_key" yaml:"api_key"`
	// SecretKey signs private requests. It is never sent over the wire.
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// Config contains all configuration options for a client.
// It includes environment selection, authentication, networking, rate limiting and circuit breaker settings.
type Config struct {
	// Sandbox selects the spot testnet. It is on by default.
	Sandbox bool `json:"sandbox" yaml:"sandbox"`
	// BaseURL overrides the REST address derived from Sandbox.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" validate:"omitempty,url"`
	// StreamURL overrides the websocket address derived from Sandbox.
	StreamURL   string       `json:"stream_url,omitempty" yaml:"stream_url" validate:"omitempty,url"`
	Credentials *Credentials `json:"credentials,omitempty" yaml:"credentials"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout      time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries" validate:"min=0"`
	RetryWaitMin time.Duration `json:"retry_wait_min" yaml:"retry_wait_min" validate:"min=0"`
	RetryWaitMax time.Duration `json:"retry_wait_max" yaml:"retry_wait_max" validate:"min=0"`

	// RecvWindow in milliseconds, appended to signed requests when non-zero.
	RecvWindow int64 `json:"recv_window" yaml:"recv_window" validate:"min=0,max=60000"`

	// RateLimitWeight is the request weight budget per RateLimitPeriod. Zero disables client-side limiting.
	RateLimitWeight int           `json:"rate_limit_weight" yaml:"rate_limit_weight" validate:"min=0"`
	RateLimitPeriod time.Duration `json:"rate_limit_period" yaml:"rate_limit_period" validate:"min=0"`
	// OrderRateLimit is the number of order placements allowed per OrderRateLimitPeriod. Zero disables it.
	OrderRateLimit       int           `json:"order_rate_limit" yaml:"order_rate_limit" validate:"min=0"`
	OrderRateLimitPeriod time.Duration `json:"order_rate_limit_period" yaml:"order_rate_limit_period" validate:"min=0"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled" yaml:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" yaml:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" yaml:"circuit_breaker_timeout"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with defaults.
// Default values: testnet, 10s timeout, no retries, 6000 weight/min and 50 orders/10s
// client-side limits, circuit breaker disabled.
func DefaultConfig() *Config {
	return &Config{
		Sandbox:      true,
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 1 * time.Second,

		RateLimitWeight:      6000,
		RateLimitPeriod:      time.Minute,
		OrderRateLimit:       50,
		OrderRateLimitPeriod: 10 * time.Second,

		CircuitBreakerEnabled:          false,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitWeight > 0 && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when RateLimitWeight is set")
	}
	if c.OrderRateLimit > 0 && c.OrderRateLimitPeriod <= 0 {
		return errors.New("OrderRateLimitPeriod must be positive when OrderRateLimit is set")
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return errors.New("CircuitBreakerFailThreshold must be positive when enabled")
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return errors.New("CircuitBreakerSuccessThreshold must be positive when enabled")
		}
		if c.CircuitBreakerTimeout <= 0 {
			return errors.New("CircuitBreakerTimeout must be positive when enabled")
		}
	}
	return nil
}

// HasCredentials reports whether both the API key and the secret are set.
func (c *Config) HasCredentials() bool {
	return c.Credentials != nil && c.Credentials.APIKey != "" && c.Credentials.SecretKey != ""
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandbox enables or disables the testnet and returns the config for chaining.
func (c *Config) WithSandbox(sandbox bool) *Config {
	c.Sandbox = sandbox
	return c
}

// WithBaseURL overrides the REST address and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRecvWindow sets the default recvWindow for signed requests and returns the config for chaining.
func (c *Config) WithRecvWindow(ms int64) *Config {
	c.RecvWindow = ms
	return c
}

// WithRateLimit sets the request weight budget and returns the config for chaining.
func (c *Config) WithRateLimit(weight int, period time.Duration) *Config {
	c.RateLimitWeight = weight
	c.RateLimitPeriod = period
	return c
}

// WithOrderRateLimit sets the order placement budget and returns the config for chaining.
func (c *Config) WithOrderRateLimit(orders int, period time.Duration) *Config {
	c.OrderRateLimit = orders
	c.OrderRateLimitPeriod = period
	return c
}

// WithCircuitBreaker enables the breaker with the given thresholds and returns the config for chaining.
func (c *Config) WithCircuitBreaker(failThreshold, successThreshold int, timeout time.Duration) *Config {
	c.CircuitBreakerEnabled = true
	c.CircuitBreakerFailThreshold = failThreshold
	c.CircuitBreakerSuccessThreshold = successThreshold
	c.CircuitBreakerTimeout = timeout
	return c
}
