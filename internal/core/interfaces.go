package core

import (
	"context"

	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"

	libnats "github.com/nats-io/nats.go"
)

type MetricsServer interface{}

type MetricsCollector interface{}

type Printer interface{}

type Forwarder interface{}

// Source is the stream selected by the configuration.
type Source interface {
	Platform() megalodon.SNS
	State() streaming.State
	Events(ctx context.Context, kinds ...streaming.EventKind) (<-chan streaming.Event, error)
	HealthCheck(ctx context.Context) error
}

// Publisher forwards events and remembers the last one delivered.
type Publisher interface {
	Publish(ctx context.Context, msg *libnats.Msg) error
	LastEventID(ctx context.Context) (string, error)
	SetLastEventID(ctx context.Context, id string) error
}
