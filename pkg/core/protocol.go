package core

// RateLimitConfig defines the exchange-published request limits.
type RateLimitConfig struct {
	// RequestWeightPerMinute is the REQUEST_WEIGHT budget per minute.
	RequestWeightPerMinute int `json:"request_weight_per_minute"`
	// OrdersPer10Seconds is the ORDERS budget per 10 seconds.
	OrdersPer10Seconds int `json:"orders_per_10_seconds"`
	// OrdersPerDay is the ORDERS budget per day.
	OrdersPerDay int `json:"orders_per_day"`
}

// Protocol defines the exchange-specific parts of the request pipeline.
// It knows the environment addresses, how to authenticate a request and
// how to turn a failed response into an error.
type Protocol interface {
	// Name returns the exchange identifier.
	Name() string

	// Version returns the API version being used.
	Version() string

	// BaseURL returns the REST address for the given environment.
	BaseURL(sandbox bool) string

	// StreamURL returns the websocket address for the given environment.
	StreamURL(sandbox bool) string

	// SignRequest adds the API key header and, for signed endpoints, the
	// timestamp, optional recvWindow and signature parameters.
	SignRequest(req *Request, creds Credentials, timestamp, recvWindow int64) error

	// ParseError converts a non-2xx response into an error.
	ParseError(statusCode int, body []byte) error

	// RateLimits returns the published rate limits.
	RateLimits() RateLimitConfig
}
