package streaming

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// EnvelopeParser decodes the {"event": ..., "payload": ...} frames of the Mastodon websocket API.
// The payload is usually a JSON document encoded as a string; delete carries a bare id.
type EnvelopeParser struct{}

func NewEnvelopeParser() *EnvelopeParser {
	return &EnvelopeParser{}
}

func (EnvelopeParser) Parse(data []byte, binary bool, emit func(RawEvent)) {
	if binary {
		emit(RawEvent{Kind: EventParserError, Err: ErrBinaryFrame})
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		emit(RawEvent{Kind: EventHeartbeat})
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		emit(RawEvent{Kind: EventError, Err: fmt.Errorf("%w: %w", ErrMalformedFrame, err)})
		return
	}

	kind, ok := nativeEvents[env.Event]
	if !ok {
		emit(RawEvent{Kind: EventError, Err: &UnknownEventError{Name: env.Event}})
		return
	}

	payload := unwrapPayload(env.Payload)
	if kind == EventDelete {
		emit(RawEvent{Kind: EventDelete, ID: string(payload)})
		return
	}
	if !json.Valid(payload) {
		emit(RawEvent{Kind: EventError, Err: fmt.Errorf("%w: %s event", ErrMalformedPayload, env.Event)})
		return
	}
	emit(RawEvent{Kind: kind, Payload: payload})
}

// unwrapPayload returns the contents of a JSON string payload, or the raw payload otherwise.
func unwrapPayload(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return json.RawMessage(s)
	}
	return raw
}
