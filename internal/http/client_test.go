package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	c, err := NewClient(&Config{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Logger:  &logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "", Timeout: time.Second})
	assert.Error(t, err)

	_, err = NewClient(&Config{BaseURL: "http://localhost", Timeout: 0})
	assert.Error(t, err)
}

func TestClient_PreservesRawQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := c.Do(context.Background(), http.MethodGet, "/api/v3/order?symbol=BTCUSDT&orderId=1&timestamp=2&signature=abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "symbol=BTCUSDT&orderId=1&timestamp=2&signature=abc", gotQuery)
}

func TestClient_Methods(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "key", r.Header.Get("X-MBX-APIKEY"))
		_, _ = w.Write([]byte(`{}`))
	})

	opt := WithHeaders(map[string]string{"X-MBX-APIKEY": "key"})
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		_, err := c.Do(context.Background(), method, "/api/v3/userDataStream", opt)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}, methods)
}

func TestClient_Closed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Do(context.Background(), http.MethodGet, "/api/v3/ping")
	assert.Error(t, err)
}

func TestRedactSignature(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/api/v3/order?symbol=BTCUSDT&timestamp=1&signature=abc", "/api/v3/order?symbol=BTCUSDT&timestamp=1"},
		{"/api/v3/account?signature=abc", "/api/v3/account"},
		{"/api/v3/ping", "/api/v3/ping"},
		{"/api/v3/depth?symbol=BTCUSDT&limit=5", "/api/v3/depth?symbol=BTCUSDT&limit=5"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, redactSignature(tt.url))
		})
	}
}

func TestClient_Retries(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		failWith  int
		failTimes int32
		wantCalls int32
		wantCode  int
	}{
		{"server error retried", http.MethodGet, http.StatusBadGateway, 2, 3, http.StatusOK},
		{"rate limit not retried", http.MethodGet, http.StatusTooManyRequests, 1, 1, http.StatusTooManyRequests},
		{"client error not retried", http.MethodDelete, http.StatusBadRequest, 1, 1, http.StatusBadRequest},
		{"new order not retried", http.MethodPost, http.StatusInternalServerError, 1, 1, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.failTimes {
					w.WriteHeader(tt.failWith)
					return
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			c, err := NewClient(&Config{
				BaseURL:      srv.URL,
				Timeout:      2 * time.Second,
				MaxRetries:   2,
				RetryWaitMin: time.Millisecond,
				RetryWaitMax: 5 * time.Millisecond,
			})
			require.NoError(t, err)
			defer c.Close()

			resp, err := c.Do(context.Background(), tt.method, "/api/v3/order")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode())
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}
