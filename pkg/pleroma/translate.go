package pleroma

import (
	"encoding/json"
	"fmt"

	"megalodon/pkg/streaming"
)

// Translate decodes streaming payloads into unified events.
func Translate(kind streaming.EventKind, payload json.RawMessage) (streaming.Event, error) {
	switch kind {
	case streaming.EventUpdate, streaming.EventStatusUpdate:
		var s Status
		if err := json.Unmarshal(payload, &s); err != nil {
			return streaming.Event{}, fmt.Errorf("pleroma: decode status: %w", err)
		}
		status := ConvertStatus(&s)
		return streaming.Event{Kind: kind, Status: &status}, nil
	case streaming.EventNotification:
		var n Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return streaming.Event{}, fmt.Errorf("pleroma: decode notification: %w", err)
		}
		notification, err := ConvertNotification(&n)
		if err != nil {
			return streaming.Event{}, err
		}
		return streaming.Event{Kind: kind, Notification: &notification}, nil
	case streaming.EventConversation:
		var c Conversation
		if err := json.Unmarshal(payload, &c); err != nil {
			return streaming.Event{}, fmt.Errorf("pleroma: decode conversation: %w", err)
		}
		conversation := ConvertConversation(&c)
		return streaming.Event{Kind: kind, Conversation: &conversation}, nil
	default:
		return streaming.Event{}, &streaming.UnknownEventError{Name: string(kind)}
	}
}
