package streaming

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"megalodon/pkg/clock"
	"megalodon/pkg/megalodon"
)

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateReconnecting
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	StateIdle:         {StateConnecting},
	StateConnecting:   {StateOpen, StateReconnecting, StateClosing, StateIdle},
	StateOpen:         {StateReconnecting, StateClosing, StateIdle},
	StateReconnecting: {StateConnecting, StateClosing, StateIdle},
	StateClosing:      {StateIdle},
}

func (s State) CanTransition(to State) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Stream is the surface every adapter exposes.
type Stream interface {
	// Start begins connecting and returns immediately; the connection is opened on another
	// goroutine, so handlers registered before Start observe every event including connect.
	// Start on a stream that is not idle does nothing.
	Start()

	// Stop closes the connection, cancels every timer and suppresses reconnects. Handlers stay
	// registered and the stream may be started again.
	Stop()

	On(kind EventKind, h Handler) error
	State() State
}

const (
	DefaultReconnectDelay = 10 * time.Second

	timerReconnect = "reconnect"
)

// transport is implemented by adapters. release is called with the lifecycle lock held: it
// detaches the connection and returns the network teardown, which lifecycle runs after unlocking.
type transport interface {
	connect(gen uint64)
	release(graceful bool) func()
}

// lifecycle owns the state machine shared by every adapter. Each successful schedule of a
// reconnect or a stop bumps generation; callbacks carrying an older generation are ignored.
type lifecycle struct {
	*emitter

	mu         sync.Mutex
	state      State
	attempts   int
	generation uint64
	closed     bool
	timers     map[string]*clock.Timer

	transport      transport
	clock          clock.Clock
	logger         *slog.Logger
	reconnectDelay time.Duration
	maxAttempts    int
}

type lifecycleConfig struct {
	platform       megalodon.SNS
	translate      Translator
	clock          clock.Clock
	logger         *slog.Logger
	reconnectDelay time.Duration
	maxAttempts    int
}

func newLifecycle(cfg lifecycleConfig, t transport) *lifecycle {
	if cfg.clock == nil {
		cfg.clock = clock.Real()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.reconnectDelay <= 0 {
		cfg.reconnectDelay = DefaultReconnectDelay
	}

	return &lifecycle{
		emitter:        newEmitter(cfg.platform, cfg.translate, cfg.logger),
		timers:         map[string]*clock.Timer{},
		transport:      t,
		clock:          cfg.clock,
		logger:         cfg.logger,
		reconnectDelay: cfg.reconnectDelay,
		maxAttempts:    cfg.maxAttempts,
	}
}

func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *lifecycle) Start() {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return
	}
	l.closed = false
	l.attempts = 0
	l.generation++
	l.setStateLocked(StateConnecting)
	gen := l.generation
	l.mu.Unlock()

	go l.transport.connect(gen)
}

// Stop stays in StateClosing while the close frame is written; a concurrent Stop or Start is
// ignored until it completes.
func (l *lifecycle) Stop() {
	l.mu.Lock()
	l.closed = true
	if l.state == StateIdle || l.state == StateClosing {
		l.mu.Unlock()
		return
	}
	l.generation++
	l.setStateLocked(StateClosing)
	l.stopTimersLocked()
	teardown := l.transport.release(true)
	l.mu.Unlock()

	teardown()

	l.mu.Lock()
	l.setStateLocked(StateIdle)
	l.mu.Unlock()

	l.emit(Event{Kind: EventClose, Code: closeNormal})
}

// staleLocked reports whether gen no longer owns the session.
func (l *lifecycle) staleLocked(gen uint64) bool {
	return l.closed || gen != l.generation
}

func (l *lifecycle) stale(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.staleLocked(gen)
}

// opened moves a connecting session to open. It returns false when gen is stale.
func (l *lifecycle) opened(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.staleLocked(gen) {
		return false
	}
	l.attempts = 0
	l.setStateLocked(StateOpen)
	return true
}

// finish ends the session without reconnecting, after a normal close or a response that can
// never become a stream.
func (l *lifecycle) finish(gen uint64) bool {
	l.mu.Lock()
	if l.staleLocked(gen) {
		l.mu.Unlock()
		return false
	}
	l.generation++
	l.stopTimersLocked()
	teardown := l.transport.release(false)
	l.setStateLocked(StateIdle)
	l.mu.Unlock()

	teardown()
	return true
}

// scheduleReconnect tears down the connection owned by gen and arms a single reconnect timer.
// Requests from a stale generation, or while a reconnect is already pending, are ignored. It
// reports whether a reconnect was scheduled.
func (l *lifecycle) scheduleReconnect(gen uint64) bool {
	l.mu.Lock()
	if l.staleLocked(gen) || l.state == StateReconnecting {
		l.mu.Unlock()
		return false
	}

	l.generation++
	l.stopTimersLocked()
	teardown := l.transport.release(false)

	if l.maxAttempts > 0 && l.attempts >= l.maxAttempts {
		l.setStateLocked(StateIdle)
		l.mu.Unlock()
		teardown()

		l.logger.Warn("Giving up reconnecting", "attempts", l.maxAttempts)
		l.emit(Event{Kind: EventClose})
		return false
	}

	l.attempts++
	l.setStateLocked(StateReconnecting)
	next := l.generation
	l.armLocked(timerReconnect, l.reconnectDelay, func() { l.reconnect(next) })
	attempt := l.attempts
	l.mu.Unlock()
	teardown()

	reconnectsTotal.WithLabelValues(string(l.platform)).Inc()
	l.logger.Info("Reconnect scheduled", "attempt", attempt, "delay", l.reconnectDelay)
	return true
}

func (l *lifecycle) reconnect(gen uint64) {
	l.mu.Lock()
	if l.staleLocked(gen) || l.state != StateReconnecting {
		l.mu.Unlock()
		return
	}
	delete(l.timers, timerReconnect)
	l.setStateLocked(StateConnecting)
	l.mu.Unlock()

	go l.transport.connect(gen)
}

func (l *lifecycle) armLocked(name string, d time.Duration, f func()) {
	l.timers[name].Stop()
	l.timers[name] = l.clock.AfterFunc(d, f)
}

func (l *lifecycle) disarmLocked(name string) {
	l.timers[name].Stop()
	delete(l.timers, name)
}

func (l *lifecycle) stopTimersLocked() {
	for name, t := range l.timers {
		t.Stop()
		delete(l.timers, name)
	}
}

func (l *lifecycle) setStateLocked(to State) {
	if !l.state.CanTransition(to) {
		l.logger.Error("Invalid state transition", "error", ErrInvalidState, "from", l.state, "to", to)
	}
	l.state = to
}
