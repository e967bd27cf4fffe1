package core

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrorType classifies an ExchangeError by how a caller should react to it.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork is a transport failure; the request may not have reached the server.
	ErrorTypeNetwork
	ErrorTypeTimeout
	// ErrorTypeRateLimit is HTTP 429/418 or code -1003.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication covers bad keys, signatures and timestamps outside recvWindow.
	ErrorTypeAuthentication
	ErrorTypeBadRequest
	ErrorTypeNotFound
	// ErrorTypeServerError is HTTP 5xx; the order state is unknown.
	ErrorTypeServerError
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder is an order the matching engine rejected.
	ErrorTypeInvalidOrder
	// ErrorTypeValidation is a request rejected locally before any I/O.
	ErrorTypeValidation
	// ErrorTypeDecode is a response body that did not match the expected shape.
	ErrorTypeDecode
)

var errorTypeNames = [...]string{
	ErrorTypeUnknown:           "UNKNOWN",
	ErrorTypeNetwork:           "NETWORK",
	ErrorTypeTimeout:           "TIMEOUT",
	ErrorTypeRateLimit:         "RATE_LIMIT",
	ErrorTypeAuthentication:    "AUTHENTICATION",
	ErrorTypeBadRequest:        "BAD_REQUEST",
	ErrorTypeNotFound:          "NOT_FOUND",
	ErrorTypeServerError:       "SERVER_ERROR",
	ErrorTypeInsufficientFunds: "INSUFFICIENT_FUNDS",
	ErrorTypeInvalidOrder:      "INVALID_ORDER",
	ErrorTypeValidation:        "VALIDATION",
	ErrorTypeDecode:            "DECODE",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "UNKNOWN"
	}
	return errorTypeNames[t]
}

var (
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when a private endpoint is called without an API key.
	ErrNoCredentials = errors.New("no credentials configured")
)

// ExchangeName is carried by every ExchangeError.
const ExchangeName = "binance"

// ExchangeError is the single error shape returned by the client. Local
// validation failures, transport failures and API error bodies all use it,
// distinguished by Type.
type ExchangeError struct {
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int `json:"status_code"`
	// Code is the API error code (e.g. "-1121") or a client-side ErrorCode.
	Code    string `json:"code"`
	Message string `json:"message"`
	// RawError holds the response body or the underlying error.
	RawError  any       `json:"raw_error,omitempty"`
	Exchange  string    `json:"exchange"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ExchangeError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s (http %d): %s", e.Exchange, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s (http %d, code %s): %s", e.Exchange, e.Type, e.StatusCode, e.Code, e.Message)
}

// WithCode sets a client-side error code.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
	return e
}

func (e *ExchangeError) WithRaw(raw any) *ExchangeError {
	e.RawError = raw
	return e
}

// Unwrap returns RawError when it is an error.
func (e *ExchangeError) Unwrap() error {
	err, _ := e.RawError.(error)
	return err
}

// Retryable reports whether sending the same request again may succeed.
func (e *ExchangeError) Retryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	}
	return false
}

// NewError creates an ExchangeError without an error code.
func NewError(errorType ErrorType, statusCode int, message string) *ExchangeError {
	return NewErrorWithCode(errorType, statusCode, "", message)
}

func NewErrorWithCode(errorType ErrorType, statusCode int, code, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Exchange:   ExchangeName,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates the error for a request rejected before any I/O.
func NewValidationError(code ErrorCode, format string, args ...any) *ExchangeError {
	return NewErrorWithCode(ErrorTypeValidation, 0, string(code), fmt.Sprintf(format, args...))
}

// AsExchangeError extracts an ExchangeError anywhere in err's chain.
func AsExchangeError(err error) (*ExchangeError, bool) {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err is an ExchangeError of one of the given types.
func IsType(err error, types ...ErrorType) bool {
	e, ok := AsExchangeError(err)
	return ok && slices.Contains(types, e.Type)
}

func IsNetworkError(err error) bool {
	return IsType(err, ErrorTypeNetwork)
}

func IsTimeoutError(err error) bool {
	return IsType(err, ErrorTypeTimeout)
}

// IsRateLimitError reports a 429/418 response. Back off before retrying;
// repeated 429s get the IP banned.
func IsRateLimitError(err error) bool {
	return IsType(err, ErrorTypeRateLimit)
}

func IsAuthenticationError(err error) bool {
	return IsType(err, ErrorTypeAuthentication)
}

// IsTerminalError reports errors that will fail again on an identical request.
func IsTerminalError(err error) bool {
	return IsType(err, ErrorTypeInsufficientFunds, ErrorTypeInvalidOrder, ErrorTypeNotFound, ErrorTypeValidation)
}

func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsRetryable reports whether err is an ExchangeError worth retrying.
func IsRetryable(err error) bool {
	e, ok := AsExchangeError(err)
	return ok && e.Retryable()
}
