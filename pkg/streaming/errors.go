package streaming

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEventKind = errors.New("streaming: unknown event kind")
	ErrBinaryFrame      = errors.New("streaming: unexpected binary frame")
	ErrMalformedFrame   = errors.New("streaming: malformed frame")
	ErrMalformedPayload = errors.New("streaming: malformed payload")
	ErrPongTimeout      = errors.New("streaming: no pong received")
	ErrIdleTimeout      = errors.New("streaming: stream went silent")
	ErrInvalidState     = errors.New("streaming: invalid state transition")
)

// UnknownEventError reports a well-formed frame whose event name is not recognised.
type UnknownEventError struct {
	Name string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("streaming: unknown event %q", e.Name)
}
