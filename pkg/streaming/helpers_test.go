package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"megalodon/pkg/entity"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type frame struct {
	messageType int
	data        []byte
	pong        bool
	err         error
}

type fakeConn struct {
	frames    chan frame
	closed    chan struct{}
	closeOnce sync.Once
	autoPong  bool

	mu          sync.Mutex
	written     [][]byte
	controls    []int
	pongHandler func(string) error
	closeGate   chan struct{}
}

func newFakeConn(autoPong bool) *fakeConn {
	return &fakeConn{
		frames:   make(chan frame, 16),
		closed:   make(chan struct{}),
		autoPong: autoPong,
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	for {
		select {
		case f := <-c.frames:
			if f.err != nil {
				return 0, nil, f.err
			}
			if f.pong {
				c.mu.Lock()
				h := c.pongHandler
				c.mu.Unlock()
				if h != nil {
					_ = h("")
				}
				continue
			}
			return f.messageType, f.data, nil
		case <-c.closed:
			return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
		}
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) WriteControl(messageType int, _ []byte, _ time.Time) error {
	c.mu.Lock()
	c.controls = append(c.controls, messageType)
	gate := c.closeGate
	c.mu.Unlock()

	if messageType == websocket.CloseMessage && gate != nil {
		<-gate
	}

	if messageType == websocket.PingMessage && c.autoPong {
		c.frames <- frame{pong: true}
	}
	return nil
}

func (c *fakeConn) SetPongHandler(h func(string) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pongHandler = h
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// holdClose blocks the close frame write until the returned channel is closed.
func (c *fakeConn) holdClose() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeGate = make(chan struct{})
	return c.closeGate
}

func (c *fakeConn) send(data string) {
	c.frames <- frame{messageType: websocket.TextMessage, data: []byte(data)}
}

func (c *fakeConn) fail(err error) {
	c.frames <- frame{err: err}
}

func (c *fakeConn) Written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.written...)
}

func (c *fakeConn) Controls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.controls...)
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

type fakeDialer struct {
	autoPong bool
	failWith error
	dialed   chan *fakeConn

	mu    sync.Mutex
	dials int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{dialed: make(chan *fakeConn, 16)}
}

func (d *fakeDialer) Dial(context.Context, string, http.Header) (Conn, error) {
	d.mu.Lock()
	d.dials++
	d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}
	conn := newFakeConn(d.autoPong)
	d.dialed <- conn
	return conn, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// translateStatus decodes {"id": ...} payloads into events carrying a status.
func translateStatus(kind EventKind, payload json.RawMessage) (Event, error) {
	var native struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &native); err != nil {
		return Event{}, err
	}
	if native.ID == "" {
		return Event{}, errors.New("missing id")
	}
	return Event{Kind: kind, Status: &entity.Status{ID: native.ID}}, nil
}

func collect(t *testing.T, s Stream) <-chan Event {
	t.Helper()

	ch := make(chan Event, 128)
	for _, kind := range Kinds() {
		require.NoError(t, s.On(kind, func(ev Event) { ch <- ev }))
	}
	return ch
}

// await skips events until one of kind arrives.
func await(t *testing.T, ch <-chan Event, kind EventKind) Event {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for event", string(kind))
		}
	}
}

func collectRaw(p Parser, frames ...string) []RawEvent {
	var out []RawEvent
	for _, f := range frames {
		p.Parse([]byte(f), false, func(ev RawEvent) { out = append(out, ev) })
	}
	return out
}
