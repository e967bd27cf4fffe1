package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"nakula/pkg/core"
)

const (
	ProductionURL = "https://api.binance.com"
	SandboxURL    = "https://testnet.binance.vision"

	ProductionStreamURL = "wss://stream.binance.com:9443/ws"
	SandboxStreamURL    = "wss://testnet.binance.vision/ws"

	// APIKeyHeader carries the API key on every authenticated request.
	APIKeyHeader = "X-MBX-APIKEY"
	// UsedWeightHeader reports the request weight used in the current minute.
	UsedWeightHeader = "X-MBX-USED-WEIGHT-1M"
)

// Protocol implements core.Protocol for the Binance spot API: environment
// addresses, request signing and error decoding.
type Protocol struct{}

func NewProtocol() *Protocol {
	return &Protocol{}
}

func (p *Protocol) Name() string {
	return core.ExchangeName
}

func (p *Protocol) Version() string {
	return "3"
}

// BaseURL returns the testnet address when sandbox is true.
func (p *Protocol) BaseURL(sandbox bool) string {
	if sandbox {
		return SandboxURL
	}
	return ProductionURL
}

func (p *Protocol) StreamURL(sandbox bool) string {
	if sandbox {
		return SandboxStreamURL
	}
	return ProductionStreamURL
}

func (p *Protocol) RateLimits() core.RateLimitConfig {
	return core.RateLimitConfig{
		RequestWeightPerMinute: 6000,
		OrdersPer10Seconds:     50,
		OrdersPerDay:           160000,
	}
}

// SignRequest authenticates req in place. API-key endpoints get the key
// header. Signed endpoints additionally get recvWindow (when positive),
// timestamp and, last, the HMAC-SHA256 signature of the query built so far.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials, timestamp, recvWindow int64) error {
	if req.Security == core.SecurityNone {
		return nil
	}
	if creds.APIKey == "" {
		return core.NewValidationError(core.ErrCodeNoCredentials, "api key is required for %s", req.Operation).
			WithRaw(core.ErrNoCredentials)
	}
	req.SetHeader(APIKeyHeader, creds.APIKey)

	if req.Security != core.SecuritySigned {
		return nil
	}
	if creds.SecretKey == "" {
		return core.NewValidationError(core.ErrCodeNoCredentials, "secret key is required for %s", req.Operation).
			WithRaw(core.ErrNoCredentials)
	}
	if recvWindow > core.MaxRecvWindow {
		return core.NewValidationError(core.ErrCodeInvalidParameter,
			"'recvWindow' must not exceed %d, got %d", core.MaxRecvWindow, recvWindow)
	}

	if recvWindow > 0 {
		req.Query.Add("recvWindow", recvWindow)
	}
	req.Query.Add("timestamp", timestamp)
	req.Query.Add("signature", Sign(req.Query.Encode(), creds.SecretKey))
	return nil
}

// Sign returns the hex HMAC-SHA256 of payload keyed by secret.
func Sign(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// ParseError converts a non-2xx response into a *core.ExchangeError. A
// {"code","msg"} body passes through as Code and Message; any other body
// becomes the message verbatim.
func (p *Protocol) ParseError(statusCode int, body []byte) error {
	var apiErr apiError
	if err := sonic.Unmarshal(body, &apiErr); err == nil && (apiErr.Code != 0 || apiErr.Msg != "") {
		return core.NewErrorWithCode(
			classifyError(statusCode, apiErr.Code, apiErr.Msg),
			statusCode,
			strconv.Itoa(apiErr.Code),
			apiErr.Msg,
		).WithRaw(string(body))
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return core.NewErrorWithCode(
		classifyError(statusCode, 0, message),
		statusCode,
		string(core.ErrCodeHTTP),
		message,
	).WithRaw(string(body))
}

func classifyError(statusCode, code int, msg string) core.ErrorType {
	switch code {
	case -1003, -1015:
		return core.ErrorTypeRateLimit
	case -1002, -1022, -2014, -2015:
		return core.ErrorTypeAuthentication
	case -1000, -1001, -1006, -1007:
		return core.ErrorTypeServerError
	case -2013:
		return core.ErrorTypeNotFound
	case -2010, -2011:
		if strings.Contains(strings.ToLower(msg), "insufficient balance") {
			return core.ErrorTypeInsufficientFunds
		}
		return core.ErrorTypeInvalidOrder
	}

	switch {
	case statusCode == http.StatusTooManyRequests || statusCode == http.StatusTeapot:
		return core.ErrorTypeRateLimit
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return core.ErrorTypeAuthentication
	case statusCode >= 500:
		return core.ErrorTypeServerError
	case code <= -1100 && code > -1200:
		return core.ErrorTypeBadRequest
	case code <= -2000 && code > -3000:
		return core.ErrorTypeInvalidOrder
	case statusCode == http.StatusNotFound:
		return core.ErrorTypeNotFound
	case statusCode >= 400:
		return core.ErrorTypeBadRequest
	}
	return core.ErrorTypeUnknown
}
