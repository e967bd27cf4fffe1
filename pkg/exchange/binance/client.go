package binance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"nakula/internal/circuitbreaker"
	httpClient "nakula/internal/http"
	"nakula/internal/ratelimit"
	"nakula/pkg/core"
	"nakula/pkg/exchange"
	"nakula/pkg/keyring"
	"nakula/pkg/metrics"
)

const orderBucket = "orders"

var (
	_ exchange.Spot = (*Client)(nil)
	_ core.Protocol = (*Protocol)(nil)
)

// Client is the Binance spot REST client. It is safe for concurrent use.
type Client struct {
	config         *core.Config
	protocol       *Protocol
	httpClient     *httpClient.Client
	rateLimiter    *ratelimit.RateLimiter
	circuitBreaker *circuitbreaker.Breaker
	keyRing        *keyring.KeyRing
	metrics        *metrics.Collectors
	logger         zerolog.Logger

	now        func() time.Time
	timeOffset atomic.Int64
	syncGroup  singleflight.Group
	closed     atomic.Bool
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds the optional collaborators of a Client.
type Options struct {
	KeyRing *keyring.KeyRing
	Logger  zerolog.Logger
	Metrics *metrics.Collectors
	Clock   func() time.Time
}

// WithKeyRing signs with keys from kr instead of the configured credentials.
func WithKeyRing(kr *keyring.KeyRing) Option {
	return func(o *Options) {
		o.KeyRing = kr
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics records request counts, latencies and reported weight usage.
func WithMetrics(m *metrics.Collectors) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithClock replaces time.Now as the source of request timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// New validates config and builds a client. A nil config means
// core.DefaultConfig().
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, core.NewValidationError(core.ErrCodeInvalidConfig, "validate config: %v", err).WithRaw(err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	protocol := NewProtocol()
	logger := options.Logger.With().Str("exchange", protocol.Name()).Logger()

	hc, err := httpClient.NewClient(&httpClient.Config{
		BaseURL:      cmp.Or(config.BaseURL, protocol.BaseURL(config.Sandbox)),
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryWaitMin: config.RetryWaitMin,
		RetryWaitMax: config.RetryWaitMax,
		Logger:       &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	var rl *ratelimit.RateLimiter
	if config.RateLimitWeight > 0 || config.OrderRateLimit > 0 {
		rl = ratelimit.New(max(config.RateLimitWeight, 1), cmp.Or(config.RateLimitPeriod, time.Minute))
		if config.OrderRateLimit > 0 {
			rl.AddBucket(orderBucket, config.OrderRateLimit, config.OrderRateLimitPeriod)
		}
	}

	var cb *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		cb = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				logger.Warn().
					Str("breaker", name).
					Stringer("from", from).
					Stringer("to", to).
					Msg("circuit breaker state changed")
				options.Metrics.SetBreakerState(int(to))
			},
		})
	}

	kr := options.KeyRing
	if kr == nil && config.Credentials != nil {
		kr = keyring.FromCredentials(*config.Credentials)
	}
	if kr != nil {
		kr.SetLogger(logger)
	}

	return &Client{
		config:         config,
		protocol:       protocol,
		httpClient:     hc,
		rateLimiter:    rl,
		circuitBreaker: cb,
		keyRing:        kr,
		metrics:        options.Metrics,
		logger:         logger,
		now:            options.Clock,
	}, nil
}

func (c *Client) Name() string {
	return c.protocol.Name()
}

func (c *Client) Version() string {
	return c.protocol.Version()
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *core.Config {
	return c.config
}

// Close releases the HTTP transport. Calls after Close fail with ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.httpClient.Close()
}

// signing carries the per-call overrides of signed endpoints.
type signing struct {
	recvWindow *int64
	timestamp  *int64
}

func signingFrom(o *exchange.Options) signing {
	return signing{recvWindow: o.RecvWindow, timestamp: o.Timestamp}
}

func (c *Client) credentials() (core.Credentials, error) {
	if c.keyRing == nil {
		return core.Credentials{}, core.NewValidationError(core.ErrCodeNoCredentials, "%v", core.ErrNoCredentials).
			WithRaw(core.ErrNoCredentials)
	}
	creds, err := c.keyRing.Credentials()
	if err != nil {
		return core.Credentials{}, core.NewValidationError(core.ErrCodeNoCredentials, "%v", err).WithRaw(err)
	}
	return creds, nil
}

// execute authenticates, throttles and sends req, returning the body and
// status of a 2xx response. Every failure is a *core.ExchangeError.
func (c *Client) execute(ctx context.Context, req *core.Request, s signing) ([]byte, int, error) {
	if c.closed.Load() {
		return nil, 0, core.NewErrorWithCode(core.ErrorTypeUnknown, 0,
			string(core.ErrCodeClientClosed), core.ErrClientClosed.Error()).WithRaw(core.ErrClientClosed)
	}

	authenticated := req.Security != core.SecurityNone
	if authenticated {
		creds, err := c.credentials()
		if err != nil {
			return nil, 0, err
		}
		timestamp := c.Timestamp()
		if s.timestamp != nil {
			timestamp = *s.timestamp
		}
		recvWindow := c.config.RecvWindow
		if s.recvWindow != nil {
			recvWindow = *s.recvWindow
		}
		if err := c.protocol.SignRequest(req, creds, timestamp, recvWindow); err != nil {
			return nil, 0, err
		}
	}

	if err := c.throttle(ctx, req); err != nil {
		return nil, 0, err
	}

	var done func(bool)
	if c.circuitBreaker != nil {
		var err error
		done, err = c.circuitBreaker.Allow()
		if err != nil {
			return nil, 0, core.NewErrorWithCode(core.ErrorTypeUnknown, 0,
				string(core.ErrCodeCircuitBreaker), err.Error()).WithRaw(err)
		}
	}
	report := func(success bool) {
		if done != nil {
			done(success)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req.Method, req.URL(), httpClient.WithHeaders(req.Headers))
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.ObserveRequest(req.Operation.String(), 0, elapsed)
		report(false)
		return nil, 0, c.transportError(req, err)
	}

	status := resp.StatusCode()
	body := resp.Bytes()
	c.metrics.ObserveRequest(req.Operation.String(), status, elapsed)
	c.metrics.ObserveHeaders(resp.Header().Get)
	c.syncUsedWeight(resp.Header().Get(UsedWeightHeader))

	if status >= 300 {
		perr := c.protocol.ParseError(status, body)
		report(status < 500)
		if authenticated && (core.IsAuthenticationError(perr) || core.IsRateLimitError(perr)) {
			c.keyRing.OnError(perr)
		}
		c.logger.Debug().
			Err(perr).
			Str("operation", req.Operation.String()).
			Msg("request failed")
		return nil, status, perr
	}

	report(true)
	if authenticated {
		c.keyRing.MarkUsed()
	}
	return body, status, nil
}

func (c *Client) throttle(ctx context.Context, req *core.Request) error {
	if c.rateLimiter == nil {
		return nil
	}

	var err error
	if c.config.RateLimitWeight > 0 {
		err = c.rateLimiter.WaitN(ctx, req.Weight)
	}
	if err == nil && req.CountsOrder && c.config.OrderRateLimit > 0 {
		err = c.rateLimiter.WaitBucket(ctx, orderBucket)
	}
	if err != nil {
		return core.NewErrorWithCode(core.ErrorTypeRateLimit, 0,
			string(core.ErrCodeRateLimited), fmt.Sprintf("rate limit wait: %v", err)).WithRaw(err)
	}
	return nil
}

// syncUsedWeight drains the local weight budget down to what the server
// reports as used by every client on this IP.
func (c *Client) syncUsedWeight(header string) {
	if c.rateLimiter == nil || c.config.RateLimitWeight <= 0 || header == "" {
		return
	}
	if used, err := strconv.Atoi(header); err == nil {
		c.rateLimiter.SyncUsedWeight(used)
	}
}

func (c *Client) transportError(req *core.Request, err error) error {
	errType, code := core.ErrorTypeNetwork, core.ErrCodeNetwork

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		errType, code = core.ErrorTypeTimeout, core.ErrCodeTimeout
	}

	return core.NewErrorWithCode(errType, 0, string(code),
		fmt.Sprintf("%s %s: %v", req.Method, req.Path, err)).WithRaw(err)
}

// call executes req and decodes the 2xx body into T.
func call[T any](ctx context.Context, c *Client, req *core.Request, s signing) (T, error) {
	var out T
	body, status, err := c.execute(ctx, req, s)
	if err != nil {
		return out, err
	}
	if err := sonic.Unmarshal(body, &out); err != nil {
		return out, core.NewErrorWithCode(core.ErrorTypeDecode, status, string(core.ErrCodeDecode),
			fmt.Sprintf("decode %s response: %v", req.Operation, err)).WithRaw(err)
	}
	return out, nil
}

// callPtr is call for single-object payloads.
func callPtr[T any](ctx context.Context, c *Client, req *core.Request, s signing) (*T, error) {
	out, err := call[T](ctx, c, req, s)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
