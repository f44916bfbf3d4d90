package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"megalodon/pkg/clock"
	"megalodon/pkg/megalodon"
)

const (
	DefaultIdleTimeout = 90 * time.Second

	// MaxRejectedBody bounds the bytes kept from a response that is not a stream.
	MaxRejectedBody = 64 << 10
	readBufferSize  = 4 << 10

	timerIdle = "idle"
)

// Opener starts the streaming HTTP request. The response body is owned by the adapter.
type Opener func(ctx context.Context) (*http.Response, error)

type EventStreamConfig struct {
	Platform  megalodon.SNS
	Open      Opener
	Translate Translator

	Clock  clock.Clock
	Logger *slog.Logger

	// IdleTimeout forces a reconnect when no bytes, heartbeats included, arrive for this long.
	IdleTimeout    time.Duration
	ReconnectDelay time.Duration

	// MaxReconnectAttempts bounds consecutive failed reconnects; 0 means unbounded.
	MaxReconnectAttempts int
}

// EventStream consumes a text/event-stream response.
type EventStream struct {
	*lifecycle

	cfg EventStreamConfig

	// guarded by lifecycle.mu
	body   io.Closer
	cancel context.CancelFunc
}

// NewEventStream returns an *megalodon.ArgumentError when Open or Translate is missing.
func NewEventStream(cfg EventStreamConfig) (*EventStream, error) {
	if cfg.Open == nil {
		return nil, &megalodon.ArgumentError{Argument: "open", Reason: "is required"}
	}
	if cfg.Translate == nil {
		return nil, &megalodon.ArgumentError{Argument: "translate", Reason: "is required"}
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("component", "streaming.EventStream", "platform", cfg.Platform)

	s := &EventStream{cfg: cfg}
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

func (s *EventStream) connect(gen uint64) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.staleLocked(gen) {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	resp, err := s.cfg.Open(ctx)
	if err != nil {
		if s.scheduleReconnect(gen) {
			s.emit(Event{Kind: EventError, Err: fmt.Errorf("streaming: open: %w", err)})
		}
		return
	}

	s.mu.Lock()
	if s.staleLocked(gen) {
		s.mu.Unlock()
		_ = resp.Body.Close()
		return
	}
	s.body = resp.Body
	s.mu.Unlock()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		s.logger.Warn("Connection limit exceeded")
		if s.scheduleReconnect(gen) {
			s.emit(Event{Kind: EventConnectionLimitExceeded, Err: &megalodon.ResponseError{StatusCode: resp.StatusCode}})
		}
		return
	case resp.StatusCode >= http.StatusBadRequest:
		body, _ := readRejected(resp.Body)
		if s.scheduleReconnect(gen) {
			s.emit(Event{Kind: EventError, Err: &megalodon.ResponseError{StatusCode: resp.StatusCode, Body: string(body)}})
		}
		return
	case !isEventStream(resp.Header.Get("Content-Type")):
		body, truncated := readRejected(resp.Body)
		if s.finish(gen) {
			s.logger.Warn("Response is not an event stream", "content_type", resp.Header.Get("Content-Type"), "truncated", truncated)
			s.emit(Event{Kind: EventNotEventStream, Body: body, Truncated: truncated})
		}
		return
	}

	if !s.opened(gen) {
		return
	}
	s.touch(gen)
	s.logger.Info("Connected")
	s.emit(Event{Kind: EventConnect})

	s.read(gen, resp.Body)
}

func (s *EventStream) read(gen uint64, body io.Reader) {
	parser := NewEventStreamParser()
	buf := make([]byte, readBufferSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if !s.touch(gen) {
				return
			}
			parser.Parse(buf[:n], false, s.dispatch)
		}
		if err != nil {
			s.readFailed(gen, err)
			return
		}
	}
}

func (s *EventStream) readFailed(gen uint64, err error) {
	if !s.scheduleReconnect(gen) {
		return
	}
	if errors.Is(err, io.EOF) {
		s.logger.Info("Server ended the stream")
		s.emit(Event{Kind: EventClose})
		return
	}
	s.emit(Event{Kind: EventError, Err: fmt.Errorf("streaming: read: %w", err)})
}

// touch re-arms the idle watchdog. It reports false when gen is stale.
func (s *EventStream) touch(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleLocked(gen) {
		return false
	}
	s.armLocked(timerIdle, s.cfg.IdleTimeout, func() { s.idle(gen) })
	return true
}

func (s *EventStream) idle(gen uint64) {
	s.logger.Warn("No data received in time", "timeout", s.cfg.IdleTimeout)
	if s.scheduleReconnect(gen) {
		s.emit(Event{Kind: EventError, Err: ErrIdleTimeout})
	}
}

// release is called by lifecycle with its lock held.
func (s *EventStream) release(bool) func() {
	body, cancel := s.body, s.cancel
	s.body, s.cancel = nil, nil

	if cancel != nil {
		cancel()
	}
	return func() {
		if body != nil {
			_ = body.Close()
		}
	}
}

// readRejected reads at most MaxRejectedBody bytes and reports whether more were available.
func readRejected(r io.Reader) ([]byte, bool) {
	body, _ := io.ReadAll(io.LimitReader(r, MaxRejectedBody+1))
	if len(body) > MaxRejectedBody {
		return body[:MaxRejectedBody], true
	}
	return body, false
}

func isEventStream(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/event-stream"
}
