package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"megalodon/internal/cmd/flags"
	"megalodon/internal/core"
	"megalodon/internal/nats"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/retry"
	"megalodon/pkg/streaming"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var forwardedKinds = []streaming.EventKind{
	streaming.EventUpdate,
	streaming.EventStatusUpdate,
	streaming.EventNotification,
	streaming.EventConversation,
	streaming.EventDelete,
}

var forwardCmd = &cli.Command{
	Name:  "forward",
	Usage: "Follow a stream, forward its events to NATS JetStream",
	Flags: append([]cli.Flag{
		flags.NATSURL,
		flags.NATSInit,
	}, streamFlags...),
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(sourceServices(),
			pal.Provide[core.Publisher, nats.NATS](),
			pal.Provide[core.Forwarder, forwarder](),
		)...)
	},
}

type forwarder struct {
	Logger    *slog.Logger
	Source    core.Source
	Publisher core.Publisher
}

func (f *forwarder) Run(ctx context.Context) error {
	last, err := f.Publisher.LastEventID(ctx)
	if err != nil {
		return err
	}
	if last != "" {
		f.Logger.Info("Previously forwarded", "id", last)
	}

	f.Logger.Info("Subscribing to the stream", "sns", f.Source.Platform())
	events, err := f.Source.Events(ctx, forwardedKinds...)
	if err != nil {
		return err
	}

	var msg *libnats.Msg
	publish := retry.WrapWithRetry(func() error {
		return f.publish(ctx, msg)
	}, func(err error, _ int) bool {
		return !errors.Is(err, context.Canceled)
	}, 10)

	for ev := range events {
		msg, err = message(f.Source.Platform(), ev)
		if err != nil {
			return err
		}

		if err := publish(); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		f.Logger.Debug("Published event", "id", msg.Header.Get(libnats.MsgIdHdr), "subject", msg.Subject)
	}

	return nil
}

func (f *forwarder) publish(ctx context.Context, msg *libnats.Msg) error {
	if err := f.Publisher.Publish(ctx, msg); err != nil {
		return err
	}
	return f.Publisher.SetLastEventID(ctx, msg.Header.Get(libnats.MsgIdHdr))
}

func message(platform megalodon.SNS, ev streaming.Event) (*libnats.Msg, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	return &libnats.Msg{
		Subject: nats.Subject(string(ev.Kind)),
		Data:    data,
		Header: libnats.Header{
			libnats.MsgIdHdr: []string{messageID(platform, ev)},
		},
	}, nil
}

// messageID identifies an event across reconnects so JetStream drops redeliveries.
func messageID(platform megalodon.SNS, ev streaming.Event) string {
	var id string
	switch ev.Kind {
	case streaming.EventUpdate:
		id = ev.Status.ID
	case streaming.EventStatusUpdate:
		id = ev.Status.ID
		if ev.Status.EditedAt != nil {
			id += "-" + ev.Status.EditedAt.UTC().Format("20060102150405.000")
		}
	case streaming.EventNotification:
		id = ev.Notification.ID
	case streaming.EventConversation:
		id = ev.Conversation.ID
		if ev.Conversation.LastStatus != nil {
			id += "-" + ev.Conversation.LastStatus.ID
		}
	case streaming.EventDelete:
		id = ev.DeletedID
	}
	return fmt.Sprintf("%s-%s-%s", platform, ev.Kind, id)
}
