package streaming

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EventStreamParser decodes text/event-stream framing:
//
//	event: update
//	data: {"id":"1",...}
//
// Comment lines (":thump") are heartbeats. Input may be split anywhere; incomplete lines are kept
// until the next call.
type EventStreamParser struct {
	buf   []byte
	event string
	data  []string
}

func NewEventStreamParser() *EventStreamParser {
	return &EventStreamParser{}
}

func (p *EventStreamParser) Parse(data []byte, _ bool, emit func(RawEvent)) {
	p.buf = append(p.buf, data...)

	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			return
		}
		line := string(bytes.TrimSuffix(p.buf[:i], []byte{'\r'}))
		p.buf = p.buf[i+1:]
		p.line(line, emit)
	}
}

func (p *EventStreamParser) line(line string, emit func(RawEvent)) {
	switch {
	case line == "":
		p.flush(emit)
		return
	case strings.HasPrefix(line, ":"):
		emit(RawEvent{Kind: EventHeartbeat})
		return
	}

	field, value, _ := strings.Cut(line, ":")
	value = strings.TrimPrefix(value, " ")

	switch field {
	case "event":
		p.event = value
	case "data":
		p.data = append(p.data, value)
	}
}

func (p *EventStreamParser) flush(emit func(RawEvent)) {
	name, data := p.event, strings.Join(p.data, "\n")
	p.event, p.data = "", nil

	if name == "" && data == "" {
		return
	}

	kind, ok := nativeEvents[name]
	switch {
	case !ok:
		emit(RawEvent{Kind: EventError, Err: &UnknownEventError{Name: name}})
	case kind == EventDelete:
		emit(RawEvent{Kind: EventDelete, ID: data})
	case !json.Valid([]byte(data)):
		emit(RawEvent{Kind: EventError, Err: fmt.Errorf("%w: %s event", ErrMalformedPayload, name)})
	default:
		emit(RawEvent{Kind: kind, Payload: json.RawMessage(data)})
	}
}
