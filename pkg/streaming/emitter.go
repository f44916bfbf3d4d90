package streaming

import (
	"fmt"
	"log/slog"
	"sync"

	"megalodon/pkg/megalodon"
)

type Handler func(Event)

// emitter is the typed dispatcher every adapter embeds. Handlers run synchronously on the
// goroutine that emits and are never invoked with adapter locks held.
type emitter struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler

	platform  megalodon.SNS
	translate Translator
	logger    *slog.Logger
}

func newEmitter(platform megalodon.SNS, translate Translator, logger *slog.Logger) *emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &emitter{
		handlers:  map[EventKind][]Handler{},
		platform:  platform,
		translate: translate,
		logger:    logger,
	}
}

func (e *emitter) On(kind EventKind, h Handler) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, kind)
	}
	if h == nil {
		return &megalodon.ArgumentError{Argument: "handler", Reason: "is nil"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], h)
	return nil
}

func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Kind]
	e.mu.RUnlock()

	eventsTotal.WithLabelValues(string(e.platform), string(ev.Kind)).Inc()

	for _, h := range handlers {
		h(ev)
	}
}

// dispatch converts a parser's raw event and emits the result.
func (e *emitter) dispatch(raw RawEvent) {
	switch raw.Kind {
	case EventUpdate, EventStatusUpdate, EventNotification, EventConversation:
		ev, err := e.translate(raw.Kind, raw.Payload)
		if err != nil {
			if megalodon.IsUnknownNotificationType(err) {
				e.logger.Debug("Dropping notification of unknown type", "error", err)
				return
			}
			e.emit(Event{Kind: EventParserError, Err: err})
			return
		}
		e.emit(ev)
	case EventDelete:
		e.emit(Event{Kind: EventDelete, DeletedID: raw.ID})
	default:
		e.emit(Event{Kind: raw.Kind, Err: raw.Err})
	}
}
