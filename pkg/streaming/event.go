package streaming

import (
	"encoding/json"

	"megalodon/pkg/entity"
)

// EventKind is the closed vocabulary shared by every adapter. The string values are part of the
// public contract and never change.
type EventKind string

const (
	EventConnect                 EventKind = "connect"
	EventUpdate                  EventKind = "update"
	EventNotification            EventKind = "notification"
	EventDelete                  EventKind = "delete"
	EventConversation            EventKind = "conversation"
	EventStatusUpdate            EventKind = "status_update"
	EventError                   EventKind = "error"
	EventHeartbeat               EventKind = "heartbeat"
	EventPong                    EventKind = "pong"
	EventClose                   EventKind = "close"
	EventParserError             EventKind = "parser-error"
	EventNotEventStream          EventKind = "not-event-stream"
	EventConnectionLimitExceeded EventKind = "connection-limit-exceeded"
)

var kinds = []EventKind{
	EventConnect,
	EventUpdate,
	EventNotification,
	EventDelete,
	EventConversation,
	EventStatusUpdate,
	EventError,
	EventHeartbeat,
	EventPong,
	EventClose,
	EventParserError,
	EventNotEventStream,
	EventConnectionLimitExceeded,
}

func Kinds() []EventKind {
	out := make([]EventKind, len(kinds))
	copy(out, kinds)
	return out
}

func (k EventKind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is what handlers receive. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind `json:"kind"`

	// Status is set for update and status_update.
	Status       *entity.Status       `json:"status,omitempty"`
	Notification *entity.Notification `json:"notification,omitempty"`
	Conversation *entity.Conversation `json:"conversation,omitempty"`

	// DeletedID is the opaque id carried by delete.
	DeletedID string `json:"deleted_id,omitempty"`

	// Err is set for error and parser-error.
	Err error `json:"-"`

	// Body is the raw response of a not-event-stream, cut to the first 64 KiB. Truncated
	// reports whether the response was longer.
	Body      []byte `json:"-"`
	Truncated bool   `json:"-"`

	// Code is the websocket close code for close, when known.
	Code int `json:"code,omitempty"`
}

// RawEvent is a parser's output before entity conversion.
type RawEvent struct {
	Kind    EventKind
	Payload json.RawMessage
	ID      string
	Err     error
}

// Parser turns frames into raw events. Implementations emit exactly one event per recognizable
// unit and buffer incomplete input between calls.
type Parser interface {
	Parse(data []byte, binary bool, emit func(RawEvent))
}

// Translator converts a payload-carrying raw event (update, status_update, notification,
// conversation) into an Event with unified entities.
type Translator func(kind EventKind, payload json.RawMessage) (Event, error)

// nativeEvents maps the event names used on the wire by Mastodon-compatible servers.
var nativeEvents = map[string]EventKind{
	"update":        EventUpdate,
	"notification":  EventNotification,
	"conversation":  EventConversation,
	"delete":        EventDelete,
	"status.update": EventStatusUpdate,
}
