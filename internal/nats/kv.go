package nats

import (
	"context"
	"errors"
	"fmt"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const lastEventIDKey = "last_event_id"

// LastEventID returns the id of the last forwarded event, or "" when nothing was forwarded yet.
func (n *NATS) LastEventID(ctx context.Context) (string, error) {
	entry, err := n.KV.Get(ctx, lastEventIDKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(entry.Value()), nil
}

func (n *NATS) Publish(ctx context.Context, msg *libnats.Msg) error {
	if _, err := n.JS.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Subject, err)
	}
	return nil
}

func (n *NATS) SetLastEventID(ctx context.Context, id string) error {
	if _, err := n.KV.Put(ctx, lastEventIDKey, []byte(id)); err != nil {
		return fmt.Errorf("failed to store key %s: %w", lastEventIDKey, err)
	}
	return nil
}
