package core

import "errors"

// ErrorCode represents a stable, machine-readable error identifier.
// Exchange-reported codes are the numeric code as a string; client-side codes are named.
type ErrorCode string

// Exchange error codes.
const (
	ErrCodeUnknown            ErrorCode = "-1000"
	ErrCodeDisconnected       ErrorCode = "-1001"
	ErrCodeUnauthorized       ErrorCode = "-1002"
	ErrCodeTooManyRequests    ErrorCode = "-1003"
	ErrCodeTooManyOrders      ErrorCode = "-1015"
	ErrCodeInvalidTimestamp   ErrorCode = "-1021"
	ErrCodeInvalidSignature   ErrorCode = "-1022"
	ErrCodeIllegalChars       ErrorCode = "-1100"
	ErrCodeMandatoryParamMiss ErrorCode = "-1102"
	ErrCodeBadSymbol          ErrorCode = "-1121"
	ErrCodeNewOrderRejected   ErrorCode = "-2010"
	ErrCodeCancelRejected     ErrorCode = "-2011"
	ErrCodeNoSuchOrder        ErrorCode = "-2013"
	ErrCodeBadAPIKeyFormat    ErrorCode = "-2014"
	ErrCodeRejectedMBXKey     ErrorCode = "-2015"
)

// Client-side error codes.
const (
	// ErrCodeNetwork indicates a network connectivity failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the request exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeDecode indicates the response body did not match the expected shape.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeHTTP indicates a non-2xx status without a structured error body.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"

	// ErrCodeMissingParameter indicates a required parameter was not given.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	// ErrCodeExclusiveParameters indicates exactly one of a set of parameters must be given.
	ErrCodeExclusiveParameters ErrorCode = "EXCLUSIVE_PARAMETERS"
	// ErrCodeInvalidParameter indicates a parameter value is outside its allowed range.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeClientClosed  ErrorCode = "CLIENT_CLOSED"

	ErrCodeCircuitBreaker ErrorCode = "CIRCUIT_BREAKER_OPEN"
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"

	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
)

// IsErrorCode checks if the error matches the specified error code.
// It extracts the exchange error and compares its code field against the provided ErrorCode.
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return ErrorCode(exErr.Code) == code
	}
	return false
}
