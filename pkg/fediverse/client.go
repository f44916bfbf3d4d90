package fediverse

import (
	"context"
	"fmt"
	"log/slog"

	"megalodon/pkg/clock"
	"megalodon/pkg/entity"
	"megalodon/pkg/friendica"
	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/misskey"
	"megalodon/pkg/pleroma"
	"megalodon/pkg/streaming"
)

// Client is the surface every platform client implements.
type Client interface {
	Platform() megalodon.SNS
	Cancel()
	Close() error

	VerifyAccountCredentials(ctx context.Context) (entity.Account, error)
	GetAccount(ctx context.Context, id string) (entity.Account, error)
	GetStatus(ctx context.Context, id string) (entity.Status, error)
	GetHomeTimeline(ctx context.Context, page megalodon.Page) ([]entity.Status, error)
	GetConversationTimeline(ctx context.Context, page megalodon.Page) ([]entity.Conversation, error)
	GetNotifications(ctx context.Context, page megalodon.Page) ([]entity.Notification, error)
	GetInstance(ctx context.Context) (entity.Instance, error)

	CreateEmojiReaction(ctx context.Context, id, emoji string) (entity.Status, error)
	DeleteEmojiReaction(ctx context.Context, id, emoji string) (entity.Status, error)
	GetEmojiReactions(ctx context.Context, id string) ([]entity.Reaction, error)

	UserStream(ctx context.Context) (streaming.Stream, error)
	PublicStream(ctx context.Context) (streaming.Stream, error)
	LocalStream(ctx context.Context) (streaming.Stream, error)
	TagStream(ctx context.Context, tag string) (streaming.Stream, error)
	ListStream(ctx context.Context, listID string) (streaming.Stream, error)
	DirectStream(ctx context.Context) (streaming.Stream, error)
}

var (
	_ Client = (*mastodon.Client)(nil)
	_ Client = (*pleroma.Client)(nil)
	_ Client = (*misskey.Client)(nil)
	_ Client = (*friendica.Client)(nil)
)

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Proxy       *megalodon.ProxyConfig

	// StreamingURL and UseEventStream apply to Mastodon-compatible servers.
	StreamingURL   string
	UseEventStream bool

	Dialer streaming.Dialer
	Clock  clock.Clock
	Logger *slog.Logger
}

func (c Config) mastodon() mastodon.Config {
	return mastodon.Config{
		BaseURL:        c.BaseURL,
		AccessToken:    c.AccessToken,
		UserAgent:      c.UserAgent,
		Proxy:          c.Proxy,
		StreamingURL:   c.StreamingURL,
		UseEventStream: c.UseEventStream,
		Dialer:         c.Dialer,
		Clock:          c.Clock,
		Logger:         c.Logger,
	}
}

// New builds the client for sns.
func New(sns megalodon.SNS, cfg Config) (Client, error) {
	switch sns {
	case megalodon.Mastodon:
		return client(mastodon.New(cfg.mastodon()))
	case megalodon.Pleroma:
		return client(pleroma.New(cfg.mastodon()))
	case megalodon.Friendica:
		return client(friendica.New(cfg.mastodon()))
	case megalodon.Misskey:
		return client(misskey.New(misskey.Config{
			BaseURL:     cfg.BaseURL,
			AccessToken: cfg.AccessToken,
			UserAgent:   cfg.UserAgent,
			Proxy:       cfg.Proxy,
			Dialer:      cfg.Dialer,
			Clock:       cfg.Clock,
			Logger:      cfg.Logger,
		}))
	default:
		return nil, fmt.Errorf("%w: %s", megalodon.ErrUnknownSNS, sns)
	}
}

// client keeps a failed constructor's typed nil out of the interface.
func client[T Client](c T, err error) (Client, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
