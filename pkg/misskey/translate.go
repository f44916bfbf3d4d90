package misskey

import (
	"encoding/json"
	"fmt"

	"megalodon/pkg/streaming"
)

// Translator decodes channel payloads with conv.
func Translator(conv Converter) streaming.Translator {
	return func(kind streaming.EventKind, payload json.RawMessage) (streaming.Event, error) {
		switch kind {
		case streaming.EventUpdate:
			var n Note
			if err := json.Unmarshal(payload, &n); err != nil {
				return streaming.Event{}, fmt.Errorf("misskey: decode note: %w", err)
			}
			status := conv.Status(&n)
			return streaming.Event{Kind: kind, Status: &status}, nil
		case streaming.EventNotification:
			var n Notification
			if err := json.Unmarshal(payload, &n); err != nil {
				return streaming.Event{}, fmt.Errorf("misskey: decode notification: %w", err)
			}
			notification, err := conv.Notification(&n)
			if err != nil {
				return streaming.Event{}, err
			}
			return streaming.Event{Kind: kind, Notification: &notification}, nil
		case streaming.EventConversation:
			var n Note
			if err := json.Unmarshal(payload, &n); err != nil {
				return streaming.Event{}, fmt.Errorf("misskey: decode note: %w", err)
			}
			conversation := conv.Conversation(&n)
			return streaming.Event{Kind: kind, Conversation: &conversation}, nil
		default:
			return streaming.Event{}, &streaming.UnknownEventError{Name: string(kind)}
		}
	}
}
