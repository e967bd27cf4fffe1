package binance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nakula/internal/ws"
	"nakula/pkg/core"
)

const (
	// DefaultKeepaliveInterval is how often a listen key is extended. Keys
	// expire after 60 minutes without a keepalive.
	DefaultKeepaliveInterval = 30 * time.Minute

	streamPingInterval = 3 * time.Minute
	closeTimeout       = 10 * time.Second
)

// ErrListenKeyExpired is reported through OnError when the server announces
// that the listen key of a stream is no longer valid.
var ErrListenKeyExpired = errors.New("listen key expired")

func listenKeyRequest(op core.Operation, listenKey string) (*core.Request, error) {
	if listenKey == "" {
		return nil, core.NewValidationError(core.ErrCodeMissingParameter,
			"One of the following argument is undefined: 'listenKey'")
	}
	return core.NewRequest(op).SetQuery("listenKey", listenKey), nil
}

// StartUserDataStream creates a listen key for the user data stream.
func (c *Client) StartUserDataStream(ctx context.Context) (string, error) {
	key, err := call[core.ListenKey](ctx, c, core.NewRequest(core.OpStartUserStream), signing{})
	if err != nil {
		return "", err
	}
	return key.ListenKey, nil
}

// KeepaliveUserDataStream extends the validity of listenKey by 60 minutes.
func (c *Client) KeepaliveUserDataStream(ctx context.Context, listenKey string) error {
	req, err := listenKeyRequest(core.OpKeepaliveUserStream, listenKey)
	if err != nil {
		return err
	}
	_, err = call[core.Empty](ctx, c, req, signing{})
	return err
}

func (c *Client) CloseUserDataStream(ctx context.Context, listenKey string) error {
	req, err := listenKeyRequest(core.OpCloseUserStream, listenKey)
	if err != nil {
		return err
	}
	_, err = call[core.Empty](ctx, c, req, signing{})
	return err
}

// UserStreamHandlers receives decoded user data stream events. Nil handlers
// are skipped.
type UserStreamHandlers struct {
	OnExecutionReport func(*ExecutionReport)
	OnAccountPosition func(*AccountPosition)
	OnBalanceUpdate   func(*BalanceUpdate)
	OnListStatus      func(*ListStatus)
	// OnError receives decode failures, failed keepalives and listen key expiry.
	OnError func(error)
}

// UserStream consumes the user data stream of the client's account. It owns
// a listen key for its lifetime and keeps it alive in the background.
type UserStream struct {
	client    *Client
	handlers  UserStreamHandlers
	keepalive time.Duration
	logger    zerolog.Logger

	mu        sync.Mutex
	conn      *ws.Client
	listenKey string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewUserStream returns a stream that is not yet connected. Call Start to
// open it.
func (c *Client) NewUserStream(handlers UserStreamHandlers) *UserStream {
	return &UserStream{
		client:    c,
		handlers:  handlers,
		keepalive: DefaultKeepaliveInterval,
		logger:    c.logger.With().Str("component", "user_stream").Logger(),
	}
}

// SetKeepaliveInterval overrides DefaultKeepaliveInterval. Must be called
// before Start.
func (s *UserStream) SetKeepaliveInterval(d time.Duration) {
	if d > 0 {
		s.keepalive = d
	}
}

func (s *UserStream) streamURL(listenKey string) string {
	base := cmp.Or(s.client.config.StreamURL, s.client.protocol.StreamURL(s.client.config.Sandbox))
	return strings.TrimRight(base, "/") + "/" + listenKey
}

// Start creates a listen key, connects to its stream and begins the
// keepalive loop. The listen key is closed again if the connection fails.
func (s *UserStream) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return errors.New("user stream already started")
	}

	listenKey, err := s.client.StartUserDataStream(ctx)
	if err != nil {
		return fmt.Errorf("start user data stream: %w", err)
	}

	conn := ws.NewClient(ws.Config{
		URL:              s.streamURL(listenKey),
		ReconnectEnabled: true,
		PingInterval:     streamPingInterval,
	}, s.handleMessage)
	conn.SetLogger(s.logger)
	conn.OnReconnect(func() {
		s.logger.Info().Msg("user stream reconnected")
	})

	if err := conn.Connect(ctx); err != nil {
		_ = conn.Close()
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cerr := s.client.CloseUserDataStream(closeCtx, listenKey); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("failed to close listen key")
		}
		return fmt.Errorf("connect user stream: %w", err)
	}
	s.client.metrics.StreamConnected(1)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.conn = conn
	s.listenKey = listenKey
	s.cancel = cancel

	s.wg.Add(1)
	go s.keepaliveLoop(loopCtx, listenKey)

	s.logger.Info().Msg("user stream started")
	return nil
}

// ListenKey returns the active listen key, or "" before Start.
func (s *UserStream) ListenKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenKey
}

func (s *UserStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.IsConnected()
}

func (s *UserStream) keepaliveLoop(ctx context.Context, listenKey string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.client.KeepaliveUserDataStream(ctx, listenKey); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn().Err(err).Msg("listen key keepalive failed")
				s.reportError(fmt.Errorf("keepalive listen key: %w", err))
				continue
			}
			s.logger.Debug().Msg("listen key kept alive")
		}
	}
}

// Close stops the keepalive loop, disconnects and closes the listen key.
// It is safe to call more than once.
func (s *UserStream) Close() error {
	s.mu.Lock()
	conn, listenKey, cancel := s.conn, s.listenKey, s.cancel
	s.conn, s.listenKey, s.cancel = nil, "", nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	cancel()
	s.wg.Wait()

	var errs []error
	if err := conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	s.client.metrics.StreamConnected(-1)

	ctx, cancelClose := context.WithTimeout(context.Background(), closeTimeout)
	defer cancelClose()
	if err := s.client.CloseUserDataStream(ctx, listenKey); err != nil {
		errs = append(errs, fmt.Errorf("close listen key: %w", err))
	}

	s.logger.Info().Msg("user stream closed")
	return errors.Join(errs...)
}

func (s *UserStream) handleMessage(data []byte) {
	if err := s.dispatch(data); err != nil {
		s.logger.Debug().Err(err).Msg("failed to handle stream message")
		s.reportError(err)
	}
}

func (s *UserStream) reportError(err error) {
	if s.handlers.OnError != nil {
		s.handlers.OnError(err)
	}
}

// dispatch decodes one stream payload and hands it to the matching handler.
func (s *UserStream) dispatch(data []byte) error {
	var probe struct {
		Event string `json:"e"`
	}
	if err := streamJSON.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("parse stream message: %w", err)
	}
	s.client.metrics.StreamEvent(probe.Event)

	switch probe.Event {
	case EventExecutionReport:
		return decodeEvent(data, probe.Event, s.handlers.OnExecutionReport)
	case EventAccountPosition:
		return decodeEvent(data, probe.Event, s.handlers.OnAccountPosition)
	case EventBalanceUpdate:
		return decodeEvent(data, probe.Event, s.handlers.OnBalanceUpdate)
	case EventListStatus:
		return decodeEvent(data, probe.Event, s.handlers.OnListStatus)
	case EventListenKeyExpired:
		s.logger.Warn().Msg("listen key expired")
		return ErrListenKeyExpired
	default:
		s.logger.Debug().Str("event", probe.Event).Msg("unhandled event type")
	}
	return nil
}

func decodeEvent[T any](data []byte, event string, handler func(*T)) error {
	if handler == nil {
		return nil
	}
	var ev T
	if err := streamJSON.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("parse %s: %w", event, err)
	}
	handler(&ev)
	return nil
}
