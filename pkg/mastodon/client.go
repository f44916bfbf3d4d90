package mastodon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"megalodon/pkg/clock"
	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/rest"
	"megalodon/pkg/streaming"
)

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Proxy       *megalodon.ProxyConfig

	// StreamingURL overrides the streaming endpoint advertised by the instance.
	StreamingURL string

	// UseEventStream selects the HTTP event-stream API instead of the websocket API.
	UseEventStream bool

	Dialer streaming.Dialer
	Clock  clock.Clock
	Logger *slog.Logger
}

// Variant describes a Mastodon-compatible server family.
type Variant struct {
	Platform           megalodon.SNS
	DecodeNotification NotificationDecoder

	// Translate defaults to TranslateWith(DecodeNotification).
	Translate streaming.Translator
}

type Client struct {
	REST *rest.Client

	cfg       Config
	platform  megalodon.SNS
	decode    NotificationDecoder
	translate streaming.Translator
	dialer    streaming.Dialer
	logger    *slog.Logger

	mu           sync.Mutex
	streamingURL string
}

func New(cfg Config) (*Client, error) {
	return NewVariant(cfg, Variant{Platform: megalodon.Mastodon, DecodeNotification: DecodeNotificationType})
}

// NewVariant builds a client for a Mastodon-compatible server with its own vocabulary.
func NewVariant(cfg Config, v Variant) (*Client, error) {
	platform := v.Platform
	if v.Translate == nil {
		v.Translate = TranslateWith(v.DecodeNotification)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r, err := rest.New(rest.Config{
		BaseURL:     cfg.BaseURL,
		AccessToken: cfg.AccessToken,
		UserAgent:   cfg.UserAgent,
		Proxy:       cfg.Proxy,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", platform, err)
	}

	dialer := cfg.Dialer
	if dialer == nil {
		d, err := streaming.NewDialer(cfg.Proxy)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("%s: %w", platform, err)
		}
		dialer = d
	}

	return &Client{
		REST:         r,
		cfg:          cfg,
		platform:     platform,
		decode:       v.DecodeNotification,
		translate:    v.Translate,
		dialer:       dialer,
		logger:       cfg.Logger.With("component", string(platform)+".Client"),
		streamingURL: strings.TrimSuffix(cfg.StreamingURL, "/"),
	}, nil
}

func (c *Client) Platform() megalodon.SNS {
	return c.platform
}

func (c *Client) Logger() *slog.Logger {
	return c.logger
}

func (c *Client) Cancel() {
	c.REST.Cancel()
}

func (c *Client) Close() error {
	return c.REST.Close()
}

func (c *Client) VerifyAccountCredentials(ctx context.Context) (entity.Account, error) {
	var a Account
	if err := c.REST.Get(ctx, "/api/v1/accounts/verify_credentials", nil, &a); err != nil {
		return entity.Account{}, err
	}
	return ConvertAccount(a), nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (entity.Account, error) {
	if err := megalodon.RequireArgument("account id", id); err != nil {
		return entity.Account{}, err
	}

	var a Account
	if err := c.REST.Get(ctx, "/api/v1/accounts/"+url.PathEscape(id), nil, &a); err != nil {
		return entity.Account{}, err
	}
	return ConvertAccount(a), nil
}

func (c *Client) GetStatus(ctx context.Context, id string) (entity.Status, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return entity.Status{}, err
	}

	var s Status
	if err := c.REST.Get(ctx, "/api/v1/statuses/"+url.PathEscape(id), nil, &s); err != nil {
		return entity.Status{}, err
	}
	return ConvertStatus(&s), nil
}

func (c *Client) GetHomeTimeline(ctx context.Context, page megalodon.Page) ([]entity.Status, error) {
	var statuses []Status
	if err := c.REST.Get(ctx, "/api/v1/timelines/home", page.Values(), &statuses); err != nil {
		return nil, err
	}

	out := make([]entity.Status, 0, len(statuses))
	for i := range statuses {
		out = append(out, ConvertStatus(&statuses[i]))
	}
	return out, nil
}

func (c *Client) GetConversationTimeline(ctx context.Context, page megalodon.Page) ([]entity.Conversation, error) {
	var conversations []Conversation
	if err := c.REST.Get(ctx, "/api/v1/conversations", page.Values(), &conversations); err != nil {
		return nil, err
	}

	out := make([]entity.Conversation, 0, len(conversations))
	for i := range conversations {
		out = append(out, ConvertConversation(&conversations[i]))
	}
	return out, nil
}

// GetNotifications omits notifications whose type has no unified equivalent.
func (c *Client) GetNotifications(ctx context.Context, page megalodon.Page) ([]entity.Notification, error) {
	var notifications []Notification
	if err := c.REST.Get(ctx, "/api/v1/notifications", page.Values(), &notifications); err != nil {
		return nil, err
	}

	out := ConvertNotifications(notifications, c.decode)
	if dropped := len(notifications) - len(out); dropped > 0 {
		c.logger.Debug("Dropped notifications of unknown type", "count", dropped)
	}
	return out, nil
}

func (c *Client) GetInstance(ctx context.Context) (entity.Instance, error) {
	i, err := c.instance(ctx)
	if err != nil {
		return entity.Instance{}, err
	}
	return ConvertInstance(i), nil
}

func (c *Client) instance(ctx context.Context) (*Instance, error) {
	var i Instance
	if err := c.REST.Get(ctx, "/api/v1/instance", nil, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *Client) CreateEmojiReaction(context.Context, string, string) (entity.Status, error) {
	return entity.Status{}, fmt.Errorf("%s: emoji reactions: %w", c.platform, megalodon.ErrNotImplemented)
}

func (c *Client) DeleteEmojiReaction(context.Context, string, string) (entity.Status, error) {
	return entity.Status{}, fmt.Errorf("%s: emoji reactions: %w", c.platform, megalodon.ErrNotImplemented)
}

func (c *Client) GetEmojiReactions(context.Context, string) ([]entity.Reaction, error) {
	return nil, fmt.Errorf("%s: emoji reactions: %w", c.platform, megalodon.ErrNotImplemented)
}

func (c *Client) UserStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, "user", "user", nil)
}

func (c *Client) PublicStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, "public", "public", nil)
}

func (c *Client) LocalStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, "public:local", "public/local", nil)
}

func (c *Client) TagStream(ctx context.Context, tag string) (streaming.Stream, error) {
	if err := megalodon.RequireArgument("tag", tag); err != nil {
		return nil, err
	}
	return c.stream(ctx, "hashtag", "hashtag", url.Values{"tag": {tag}})
}

func (c *Client) ListStream(ctx context.Context, listID string) (streaming.Stream, error) {
	if err := megalodon.RequireArgument("list id", listID); err != nil {
		return nil, err
	}
	return c.stream(ctx, "list", "list", url.Values{"list": {listID}})
}

func (c *Client) DirectStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, "direct", "direct", nil)
}

// stream builds an adapter for the named stream. The websocket API takes the stream as a query
// parameter, the event-stream API as a path segment.
func (c *Client) stream(ctx context.Context, name, path string, params url.Values) (streaming.Stream, error) {
	if c.cfg.UseEventStream {
		s, err := streaming.NewEventStream(streaming.EventStreamConfig{
			Platform:  c.platform,
			Translate: c.Translate,
			Clock:     c.cfg.Clock,
			Logger:    c.cfg.Logger,
			Open: func(ctx context.Context) (*http.Response, error) {
				return c.REST.Stream(ctx, "/api/v1/streaming/"+path, params)
			},
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	base, err := c.streamingBase(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{"stream": {name}}
	for key, values := range params {
		query[key] = values
	}
	if token := c.REST.AccessToken(); token != "" {
		query.Set("access_token", token)
	}

	header := http.Header{}
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}

	s, err := streaming.NewSocket(streaming.SocketConfig{
		Platform:  c.platform,
		URL:       base + "/api/v1/streaming?" + query.Encode(),
		Header:    header,
		Translate: c.Translate,
		NewParser: func() streaming.Parser { return streaming.NewEnvelopeParser() },
		Dialer:    c.dialer,
		Clock:     c.cfg.Clock,
		Logger:    c.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// streamingBase resolves the websocket origin once: the configured URL, the one advertised by the
// instance, or the REST origin with a websocket scheme.
func (c *Client) streamingBase(ctx context.Context) (string, error) {
	c.mu.Lock()
	base := c.streamingURL
	c.mu.Unlock()
	if base != "" {
		return base, nil
	}

	i, err := c.instance(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: resolve streaming url: %w", c.platform, err)
	}

	base = strings.TrimSuffix(i.URLs.StreamingAPI, "/")
	if base == "" {
		base = streaming.WebsocketOrigin(c.REST.BaseURL())
	}

	c.mu.Lock()
	c.streamingURL = base
	c.mu.Unlock()
	return base, nil
}
