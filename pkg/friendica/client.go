package friendica

import (
	"context"
	"fmt"

	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"
)

type Config = mastodon.Config

// Client speaks Friendica's Mastodon-compatible REST API. Friendica has no streaming API.
type Client struct {
	*mastodon.Client
}

func New(cfg Config) (*Client, error) {
	c, err := mastodon.NewVariant(cfg, mastodon.Variant{
		Platform:           megalodon.Friendica,
		DecodeNotification: DecodeNotificationType,
	})
	if err != nil {
		return nil, err
	}
	return &Client{Client: c}, nil
}

var errNoStreaming = fmt.Errorf("friendica: streaming: %w", megalodon.ErrNotImplemented)

func (c *Client) UserStream(context.Context) (streaming.Stream, error) {
	return nil, errNoStreaming
}

func (c *Client) PublicStream(context.Context) (streaming.Stream, error) {
	return nil, errNoStreaming
}

func (c *Client) LocalStream(context.Context) (streaming.Stream, error) {
	return nil, errNoStreaming
}

func (c *Client) TagStream(context.Context, string) (streaming.Stream, error) {
	return nil, errNoStreaming
}

func (c *Client) ListStream(context.Context, string) (streaming.Stream, error) {
	return nil, errNoStreaming
}

func (c *Client) DirectStream(context.Context) (streaming.Stream, error) {
	return nil, errNoStreaming
}
