package cmd

import (
	"context"
	"log/slog"

	"megalodon/internal/cmd/flags"
	"megalodon/internal/core"
	"megalodon/internal/metrics"
	"megalodon/internal/source"
	"megalodon/pkg/streaming"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

var streamFlags = []cli.Flag{
	flags.Stream,
	flags.Tag,
	flags.List,
	flags.EventStream,
	flags.MetricsAddr,
}

var streamCmd = &cli.Command{
	Name:  "stream",
	Usage: "Follow a stream and log its events",
	Flags: streamFlags,
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(sourceServices(),
			pal.Provide[core.Printer, printer](),
		)...)
	},
}

// sourceServices follow the configured stream and expose its metrics.
func sourceServices() []pal.ServiceImpl {
	return []pal.ServiceImpl{
		pal.Provide[core.Source, source.Source](),
		pal.Provide[core.MetricsServer, metrics.HTTPServer](),
		pal.Provide[core.MetricsCollector, metrics.Collector](),
	}
}

type printer struct {
	Logger *slog.Logger
	Source core.Source
}

func (p *printer) Run(ctx context.Context) error {
	events, err := p.Source.Events(ctx)
	if err != nil {
		return err
	}

	for ev := range events {
		p.print(ev)
	}
	return nil
}

func (p *printer) print(ev streaming.Event) {
	attrs := []any{"kind", ev.Kind}

	switch ev.Kind {
	case streaming.EventUpdate, streaming.EventStatusUpdate:
		content := lo.FromPtr(ev.Status.PlainContent)
		if content == "" {
			content = ev.Status.Content
		}
		attrs = append(attrs, "id", ev.Status.ID, "account", ev.Status.Account.Acct, "content", content)
	case streaming.EventNotification:
		attrs = append(attrs, "id", ev.Notification.ID, "type", ev.Notification.Type)
		if ev.Notification.Account != nil {
			attrs = append(attrs, "account", ev.Notification.Account.Acct)
		}
	case streaming.EventConversation:
		attrs = append(attrs, "id", ev.Conversation.ID, "unread", ev.Conversation.Unread)
	case streaming.EventDelete:
		attrs = append(attrs, "id", ev.DeletedID)
	case streaming.EventClose:
		attrs = append(attrs, "code", ev.Code)
	case streaming.EventError, streaming.EventParserError:
		p.Logger.Warn("Stream error", "kind", ev.Kind, "error", ev.Err)
		return
	case streaming.EventHeartbeat, streaming.EventPong:
		p.Logger.Debug("Event", attrs...)
		return
	}

	p.Logger.Info("Event", attrs...)
}
