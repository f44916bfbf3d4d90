package mastodon

import (
	"encoding/json"
	"fmt"

	"megalodon/pkg/streaming"
)

// Translate decodes streaming payloads into unified events.
func (c *Client) Translate(kind streaming.EventKind, payload json.RawMessage) (streaming.Event, error) {
	return c.translate(kind, payload)
}

func TranslateWith(decode NotificationDecoder) streaming.Translator {
	return func(kind streaming.EventKind, payload json.RawMessage) (streaming.Event, error) {
		switch kind {
		case streaming.EventUpdate, streaming.EventStatusUpdate:
			var s Status
			if err := json.Unmarshal(payload, &s); err != nil {
				return streaming.Event{}, fmt.Errorf("mastodon: decode status: %w", err)
			}
			status := ConvertStatus(&s)
			return streaming.Event{Kind: kind, Status: &status}, nil
		case streaming.EventNotification:
			var n Notification
			if err := json.Unmarshal(payload, &n); err != nil {
				return streaming.Event{}, fmt.Errorf("mastodon: decode notification: %w", err)
			}
			notification, err := ConvertNotificationWith(&n, decode)
			if err != nil {
				return streaming.Event{}, err
			}
			return streaming.Event{Kind: kind, Notification: &notification}, nil
		case streaming.EventConversation:
			var conv Conversation
			if err := json.Unmarshal(payload, &conv); err != nil {
				return streaming.Event{}, fmt.Errorf("mastodon: decode conversation: %w", err)
			}
			conversation := ConvertConversation(&conv)
			return streaming.Event{Kind: kind, Conversation: &conversation}, nil
		default:
			return streaming.Event{}, &streaming.UnknownEventError{Name: string(kind)}
		}
	}
}
