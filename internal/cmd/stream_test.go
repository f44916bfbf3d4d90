package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"megalodon/pkg/entity"
	"megalodon/pkg/streaming"

	"github.com/stretchr/testify/require"
)

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := &printer{Logger: slog.New(newHandler(&buf, slog.LevelInfo, false))}

	plain := "hello"
	p.print(streaming.Event{Kind: streaming.EventUpdate, Status: &entity.Status{ID: "1", Content: "<p>hello</p>", PlainContent: &plain}})
	p.print(streaming.Event{Kind: streaming.EventNotification, Notification: &entity.Notification{ID: "2", Type: entity.NotificationFollow}})
	p.print(streaming.Event{Kind: streaming.EventHeartbeat})
	p.print(streaming.Event{Kind: streaming.EventParserError, Err: errors.New("bad frame")})

	out := buf.String()
	require.Contains(t, out, `"content":"hello"`)
	require.Contains(t, out, `"type":"follow"`)
	require.NotContains(t, out, "heartbeat")
	require.Contains(t, out, `"error":"bad frame"`)
}
