package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

var ErrNotConnected = errors.New("websocket not connected")

// Config holds configuration options for a websocket client.
type Config struct {
	// URL is the websocket endpoint. It can be replaced with SetURL between connects.
	URL string
	// ReconnectEnabled turns on automatic reconnection after an unexpected close.
	ReconnectEnabled bool
	// MaxReconnectAttempts bounds consecutive reconnect attempts; zero means unlimited.
	MaxReconnectAttempts int
	ReconnectBaseWait    time.Duration
	ReconnectMaxWait     time.Duration
	// PingInterval is the period of client-initiated pings; zero disables them.
	PingInterval time.Duration
	// PongWait is how long the read deadline extends past the ping interval.
	PongWait         time.Duration
	HandshakeTimeout time.Duration
}

// Client is a single websocket connection that hands every text frame to a
// message callback and reconnects with exponential backoff.
type Client struct {
	config  Config
	state   *State
	conn    *gws.Conn
	handler *eventHandler
	logger  zerolog.Logger

	onMessage   func([]byte)
	onReconnect func()

	mu                sync.RWMutex
	connectedChan     chan struct{}
	stopChan          chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
	reconnectAttempts int
}

type eventHandler struct {
	client *Client
}

// NewClient applies defaults for zero-valued configuration fields.
func NewClient(config Config, onMessage func([]byte)) *Client {
	if config.ReconnectBaseWait == 0 {
		config.ReconnectBaseWait = time.Second
	}
	if config.ReconnectMaxWait == 0 {
		config.ReconnectMaxWait = 30 * time.Second
	}
	if config.PongWait == 0 {
		config.PongWait = time.Minute
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = 10 * time.Second
	}
	if onMessage == nil {
		onMessage = func([]byte) {}
	}

	client := &Client{
		config:        config,
		state:         &State{},
		connectedChan: make(chan struct{}),
		stopChan:      make(chan struct{}),
		logger:        zerolog.Nop(),
		onMessage:     onMessage,
	}
	client.state.Store(StateDisconnected)
	client.handler = &eventHandler{client: client}
	return client
}

func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// OnReconnect registers a callback run after every successful reconnect.
func (c *Client) OnReconnect(fn func()) {
	c.mu.Lock()
	c.onReconnect = fn
	c.mu.Unlock()
}

func (c *Client) SetURL(url string) {
	c.mu.Lock()
	c.config.URL = url
	c.mu.Unlock()
}

func (c *Client) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.URL
}

func (h *eventHandler) deadline() time.Time {
	return time.Now().Add(h.client.config.PingInterval + h.client.config.PongWait)
}

func (h *eventHandler) OnOpen(socket *gws.Conn) {
	h.client.state.Store(StateConnected)

	h.client.mu.Lock()
	h.client.reconnectAttempts = 0
	select {
	case <-h.client.connectedChan:
	default:
		close(h.client.connectedChan)
	}
	h.client.mu.Unlock()

	h.client.logger.Info().Str("url", h.client.URL()).Msg("websocket connected")
	_ = socket.SetDeadline(h.deadline())
}

func (h *eventHandler) OnClose(socket *gws.Conn, err error) {
	c := h.client
	if c.state.Load() == StateClosed {
		return
	}
	c.mu.RLock()
	current := c.conn
	c.mu.RUnlock()
	// An aborted Connect already detached its socket.
	if current != socket {
		return
	}
	c.state.Store(StateDisconnected)

	c.mu.Lock()
	c.connectedChan = make(chan struct{})
	c.mu.Unlock()

	c.logger.Warn().Err(err).Str("url", c.URL()).Msg("websocket disconnected")

	if !c.config.ReconnectEnabled {
		return
	}
	select {
	case <-c.stopChan:
	default:
		go c.attemptReconnect()
	}
}

func (h *eventHandler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(h.deadline())
	_ = socket.WritePong(payload)
}

func (h *eventHandler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(h.deadline())
}

func (h *eventHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = socket.SetDeadline(h.deadline())

	data := message.Bytes()
	if len(data) == 0 {
		return
	}

	h.client.logger.Debug().Bytes("data", data).Msg("received websocket message")

	// message buffers are pooled by gws
	buf := make([]byte, len(data))
	copy(buf, data)
	h.client.onMessage(buf)
}

// Connect dials the current URL and blocks until the handshake completes.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(StateDisconnected, StateConnecting) &&
		!c.state.CompareAndSwap(StateReconnecting, StateConnecting) {
		current := c.state.Load()
		if current == StateConnected {
			return nil
		}
		return fmt.Errorf("invalid state for connect: %s", current)
	}

	socket, _, err := gws.NewClient(c.handler, &gws.ClientOption{
		Addr:             c.URL(),
		HandshakeTimeout: c.config.HandshakeTimeout,
	})
	if err != nil {
		c.state.Store(StateDisconnected)
		return fmt.Errorf("connect websocket: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = socket.NetConn().Close()
		c.state.Store(StateDisconnected)
		return err
	}

	c.mu.Lock()
	c.conn = socket
	connected := c.connectedChan
	c.mu.Unlock()

	c.wg.Go(func() {
		socket.ReadLoop()
	})

	select {
	case <-connected:
	case <-ctx.Done():
		c.abort(socket)
		c.state.Store(StateDisconnected)
		return ctx.Err()
	case <-c.stopChan:
		_ = socket.NetConn().Close()
		return fmt.Errorf("client stopped")
	}

	if c.config.PingInterval > 0 {
		c.wg.Go(func() {
			c.pingLoop(socket)
		})
	}
	return nil
}

// abort detaches socket so its close does not trigger a reconnect, then
// drops the connection.
func (c *Client) abort(socket *gws.Conn) {
	c.mu.Lock()
	if c.conn == socket {
		c.conn = nil
	}
	select {
	case <-c.connectedChan:
		c.connectedChan = make(chan struct{})
	default:
	}
	c.mu.Unlock()
	_ = socket.NetConn().Close()
}

func (c *Client) pingLoop(socket *gws.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.RLock()
			current := c.conn
			c.mu.RUnlock()
			if current != socket {
				return
			}
			if err := socket.WritePing(nil); err != nil {
				c.logger.Debug().Err(err).Msg("websocket ping failed")
				return
			}
		}
	}
}

// Close shuts the connection down and stops reconnecting. It is idempotent.
func (c *Client) Close() error {
	c.stopOnce.Do(func() {
		c.state.Store(StateClosed)
		close(c.stopChan)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteClose(1000, nil)
			_ = c.conn.NetConn().Close()
		}
		c.mu.Unlock()
	})

	c.wg.Wait()
	return nil
}

func (c *Client) State() ConnState {
	return c.state.Load()
}

func (c *Client) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// WriteMessage sends a text frame.
func (c *Client) WriteMessage(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || c.state.Load() != StateConnected {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(gws.OpcodeText, data)
}

func (c *Client) attemptReconnect() {
	if !c.state.CompareAndSwap(StateDisconnected, StateReconnecting) {
		return
	}

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		c.mu.Lock()
		attempts := c.reconnectAttempts
		c.reconnectAttempts++
		c.mu.Unlock()

		if c.config.MaxReconnectAttempts > 0 && attempts >= c.config.MaxReconnectAttempts {
			c.logger.Error().Int("attempts", attempts).Msg("giving up reconnect")
			c.state.Store(StateDisconnected)
			return
		}

		wait := c.backoff(attempts)
		c.logger.Info().Dur("wait", wait).Int("attempt", attempts+1).Msg("attempting reconnect")

		select {
		case <-time.After(wait):
		case <-c.stopChan:
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.config.HandshakeTimeout)
		err := c.Connect(ctx)
		cancel()
		if err != nil {
			c.logger.Error().Err(err).Int("attempt", attempts+1).Msg("reconnect failed")
			c.state.CompareAndSwap(StateDisconnected, StateReconnecting)
			continue
		}

		c.logger.Info().Msg("reconnected")
		c.mu.RLock()
		fn := c.onReconnect
		c.mu.RUnlock()
		if fn != nil {
			fn()
		}
		return
	}
}

func (c *Client) backoff(attempts int) time.Duration {
	if attempts > 30 {
		return c.config.ReconnectMaxWait
	}
	return min(c.config.ReconnectBaseWait*time.Duration(1<<uint(attempts)), c.config.ReconnectMaxWait)
}
