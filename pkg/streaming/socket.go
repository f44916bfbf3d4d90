package streaming

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"megalodon/pkg/clock"
	"megalodon/pkg/megalodon"

	"github.com/gorilla/websocket"
)

const (
	DefaultHeartbeatInterval = 60 * time.Second
	DefaultPongTimeout       = 10 * time.Second

	writeWait   = 5 * time.Second
	closeNormal = websocket.CloseNormalClosure

	timerHeartbeat = "heartbeat"
	timerPong      = "pong"
)

// Conn is the part of *websocket.Conn the socket adapter uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

type SocketConfig struct {
	Platform megalodon.SNS
	URL      string
	Header   http.Header

	// NewParser is called once per connection.
	NewParser func() Parser
	Translate Translator

	// Subscriptions are written in order right after every successful open.
	Subscriptions [][]byte

	// Dialer defaults to a gorilla dialer without proxy.
	Dialer Dialer
	Clock  clock.Clock
	Logger *slog.Logger

	HeartbeatInterval time.Duration
	PongTimeout       time.Duration
	ReconnectDelay    time.Duration

	// MaxReconnectAttempts bounds consecutive failed reconnects; 0 means unbounded.
	MaxReconnectAttempts int
}

// Socket is a websocket stream with ping/pong liveness checks and automatic reconnects.
type Socket struct {
	*lifecycle

	cfg SocketConfig

	// guarded by lifecycle.mu
	conn   Conn
	cancel context.CancelFunc
}

// NewSocket returns an *megalodon.ArgumentError when URL or Translate is missing.
func NewSocket(cfg SocketConfig) (*Socket, error) {
	if err := megalodon.RequireArgument("url", cfg.URL); err != nil {
		return nil, err
	}
	if cfg.Translate == nil {
		return nil, &megalodon.ArgumentError{Argument: "translate", Reason: "is required"}
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &WebsocketDialer{dialer: websocket.DefaultDialer}
	}
	if cfg.NewParser == nil {
		cfg.NewParser = func() Parser { return NewEnvelopeParser() }
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = DefaultPongTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("component", "streaming.Socket", "platform", cfg.Platform)

	s := &Socket{cfg: cfg}
	s.lifecycle = newLifecycle(lifecycleConfig{
		platform:       cfg.Platform,
		translate:      cfg.Translate,
		clock:          cfg.Clock,
		logger:         cfg.Logger,
		reconnectDelay: cfg.ReconnectDelay,
		maxAttempts:    cfg.MaxReconnectAttempts,
	}, s)
	return s, nil
}

func (s *Socket) connect(gen uint64) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.staleLocked(gen) {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Debug("Dialing", "url", redact(s.cfg.URL))
	conn, err := s.cfg.Dialer.Dial(ctx, s.cfg.URL, s.cfg.Header)
	if err != nil {
		if s.scheduleReconnect(gen) {
			s.emit(Event{Kind: EventError, Err: fmt.Errorf("streaming: dial: %w", err)})
		}
		return
	}

	s.mu.Lock()
	if s.staleLocked(gen) {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	conn.SetPongHandler(func(string) error {
		s.pong(gen)
		return nil
	})
	s.mu.Unlock()

	if !s.opened(gen) {
		return
	}
	s.logger.Info("Connected")
	s.emit(Event{Kind: EventConnect})

	for _, frame := range s.cfg.Subscriptions {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			if s.scheduleReconnect(gen) {
				s.emit(Event{Kind: EventError, Err: fmt.Errorf("streaming: subscribe: %w", err)})
			}
			return
		}
	}

	s.mu.Lock()
	if !s.staleLocked(gen) {
		s.armLocked(timerHeartbeat, s.cfg.HeartbeatInterval, func() { s.ping(gen) })
	}
	s.mu.Unlock()

	s.read(gen, conn)
}

func (s *Socket) read(gen uint64, conn Conn) {
	parser := s.cfg.NewParser()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			s.readFailed(gen, err)
			return
		}
		if s.stale(gen) {
			return
		}
		parser.Parse(data, messageType == websocket.BinaryMessage, s.dispatch)
	}
}

func (s *Socket) readFailed(gen uint64, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == closeNormal {
		if s.finish(gen) {
			s.logger.Info("Server closed the connection")
			s.emit(Event{Kind: EventClose, Code: closeErr.Code})
		}
		return
	}

	if s.scheduleReconnect(gen) {
		ev := Event{Kind: EventError, Err: fmt.Errorf("streaming: read: %w", err)}
		if closeErr != nil {
			ev.Code = closeErr.Code
		}
		s.emit(ev)
	}
}

func (s *Socket) ping(gen uint64) {
	s.mu.Lock()
	if s.staleLocked(gen) || s.state != StateOpen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, timerHeartbeat)
	s.armLocked(timerPong, s.cfg.PongTimeout, func() { s.pongTimeout(gen) })
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.WriteControl(websocket.PingMessage, nil, s.clock.Now().Add(writeWait)); err != nil {
		if s.scheduleReconnect(gen) {
			s.emit(Event{Kind: EventError, Err: fmt.Errorf("streaming: ping: %w", err)})
		}
	}
}

func (s *Socket) pong(gen uint64) {
	s.mu.Lock()
	if s.staleLocked(gen) {
		s.mu.Unlock()
		return
	}
	s.disarmLocked(timerPong)
	s.armLocked(timerHeartbeat, s.cfg.HeartbeatInterval, func() { s.ping(gen) })
	s.mu.Unlock()

	s.emit(Event{Kind: EventPong})
}

func (s *Socket) pongTimeout(gen uint64) {
	s.logger.Warn("Pong not received in time", "timeout", s.cfg.PongTimeout)
	if s.scheduleReconnect(gen) {
		s.emit(Event{Kind: EventError, Err: ErrPongTimeout})
	}
}

// release is called by lifecycle with its lock held. The close frame is written by the returned
// func, outside the lock.
func (s *Socket) release(graceful bool) func() {
	conn, cancel := s.conn, s.cancel
	s.conn, s.cancel = nil, nil

	if cancel != nil {
		cancel()
	}
	return func() {
		if conn == nil {
			return
		}
		if graceful {
			msg := websocket.FormatCloseMessage(closeNormal, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, s.clock.Now().Add(writeWait))
		}
		_ = conn.Close()
	}
}
