package misskey

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"megalodon/pkg/clock"
	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/rest"
	"megalodon/pkg/streaming"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Proxy       *megalodon.ProxyConfig

	Dialer streaming.Dialer
	Clock  clock.Clock
	Logger *slog.Logger
}

// Client talks to the Misskey API: every call is a POST to /api/<endpoint> with a JSON body.
type Client struct {
	REST *rest.Client

	cfg    Config
	dialer streaming.Dialer
	logger *slog.Logger

	mu   sync.Mutex
	meID string
}

func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}

	r, err := rest.New(rest.Config{
		BaseURL:     cfg.BaseURL,
		AccessToken: cfg.AccessToken,
		UserAgent:   cfg.UserAgent,
		Proxy:       cfg.Proxy,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("misskey: %w", err)
	}

	dialer := cfg.Dialer
	if dialer == nil {
		d, err := streaming.NewDialer(cfg.Proxy)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("misskey: %w", err)
		}
		dialer = d
	}

	return &Client{
		REST:   r,
		cfg:    cfg,
		dialer: dialer,
		logger: cfg.Logger.With("component", "misskey.Client"),
	}, nil
}

func (c *Client) Platform() megalodon.SNS {
	return megalodon.Misskey
}

func (c *Client) Cancel() {
	c.REST.Cancel()
}

func (c *Client) Close() error {
	return c.REST.Close()
}

// Converter returns a converter bound to this server and, once known, the current user.
func (c *Client) Converter() Converter {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Converter{BaseURL: c.REST.BaseURL(), MeID: c.meID, Now: c.cfg.Clock.Now}
}

// call posts params to /api/<endpoint>, authenticating with the "i" parameter.
func (c *Client) call(ctx context.Context, endpoint string, params map[string]any, result any) error {
	body := map[string]any{}
	for key, value := range params {
		body[key] = value
	}
	if token := c.REST.AccessToken(); token != "" {
		body["i"] = token
	}
	return c.REST.Post(ctx, "/api/"+endpoint, body, result)
}

func (c *Client) VerifyAccountCredentials(ctx context.Context) (entity.Account, error) {
	me, err := c.verify(ctx)
	if err != nil {
		return entity.Account{}, err
	}
	return c.Converter().AccountDetail(*me), nil
}

func (c *Client) verify(ctx context.Context) (*UserDetail, error) {
	var me UserDetail
	if err := c.call(ctx, "i", nil, &me); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.meID = me.ID
	c.mu.Unlock()
	return &me, nil
}

// me resolves the current user's id once.
func (c *Client) me(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.meID
	c.mu.Unlock()
	if id != "" || c.REST.AccessToken() == "" {
		return id, nil
	}

	me, err := c.verify(ctx)
	if err != nil {
		return "", err
	}
	return me.ID, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (entity.Account, error) {
	if err := megalodon.RequireArgument("account id", id); err != nil {
		return entity.Account{}, err
	}

	var u UserDetail
	if err := c.call(ctx, "users/show", map[string]any{"userId": id}, &u); err != nil {
		return entity.Account{}, err
	}
	return c.Converter().AccountDetail(u), nil
}

func (c *Client) GetStatus(ctx context.Context, id string) (entity.Status, error) {
	n, err := c.note(ctx, id)
	if err != nil {
		return entity.Status{}, err
	}
	return c.Converter().Status(n), nil
}

func (c *Client) note(ctx context.Context, id string) (*Note, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return nil, err
	}

	var n Note
	if err := c.call(ctx, "notes/show", map[string]any{"noteId": id}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// pageParams translates Mastodon-style paging into Misskey's untilId/sinceId.
func pageParams(page megalodon.Page) map[string]any {
	params := map[string]any{}
	if page.Limit > 0 {
		params["limit"] = page.Limit
	}
	if page.MaxID != "" {
		params["untilId"] = page.MaxID
	}
	if page.SinceID != "" {
		params["sinceId"] = page.SinceID
	}
	if page.MinID != "" {
		params["sinceId"] = page.MinID
	}
	return params
}

func (c *Client) GetHomeTimeline(ctx context.Context, page megalodon.Page) ([]entity.Status, error) {
	var notes []Note
	if err := c.call(ctx, "notes/timeline", pageParams(page), &notes); err != nil {
		return nil, err
	}

	conv := c.Converter()
	out := make([]entity.Status, 0, len(notes))
	for i := range notes {
		out = append(out, conv.Status(&notes[i]))
	}
	return out, nil
}

// GetConversationTimeline lists direct notes addressed to the current user.
func (c *Client) GetConversationTimeline(ctx context.Context, page megalodon.Page) ([]entity.Conversation, error) {
	params := pageParams(page)
	params["visibility"] = VisibilitySpecified

	var notes []Note
	if err := c.call(ctx, "notes/mentions", params, &notes); err != nil {
		return nil, err
	}

	conv := c.Converter()
	out := make([]entity.Conversation, 0, len(notes))
	for i := range notes {
		out = append(out, conv.Conversation(&notes[i]))
	}
	return out, nil
}

func (c *Client) GetNotifications(ctx context.Context, page megalodon.Page) ([]entity.Notification, error) {
	var notifications []Notification
	if err := c.call(ctx, "i/notifications", pageParams(page), &notifications); err != nil {
		return nil, err
	}

	out := c.Converter().Notifications(notifications)
	if dropped := len(notifications) - len(out); dropped > 0 {
		c.logger.Debug("Dropped notifications of unknown type", "count", dropped)
	}
	return out, nil
}

func (c *Client) GetInstance(ctx context.Context) (entity.Instance, error) {
	var meta Meta
	if err := c.call(ctx, "meta", map[string]any{"detail": true}, &meta); err != nil {
		return entity.Instance{}, err
	}

	var stats Stats
	if err := c.call(ctx, "stats", nil, &stats); err != nil {
		c.logger.Debug("Instance stats unavailable", "error", err)
		return c.Converter().Instance(&meta, nil), nil
	}
	return c.Converter().Instance(&meta, &stats), nil
}

func (c *Client) CreateEmojiReaction(ctx context.Context, id, emoji string) (entity.Status, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return entity.Status{}, err
	}
	if err := megalodon.RequireArgument("emoji", emoji); err != nil {
		return entity.Status{}, err
	}

	if err := c.call(ctx, "notes/reactions/create", map[string]any{"noteId": id, "reaction": emoji}, nil); err != nil {
		return entity.Status{}, err
	}
	return c.GetStatus(ctx, id)
}

// DeleteEmojiReaction removes the current user's reaction; Misskey allows only one per note.
func (c *Client) DeleteEmojiReaction(ctx context.Context, id, _ string) (entity.Status, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return entity.Status{}, err
	}

	if err := c.call(ctx, "notes/reactions/delete", map[string]any{"noteId": id}, nil); err != nil {
		return entity.Status{}, err
	}
	return c.GetStatus(ctx, id)
}

func (c *Client) GetEmojiReactions(ctx context.Context, id string) ([]entity.Reaction, error) {
	n, err := c.note(ctx, id)
	if err != nil {
		return nil, err
	}

	meID, err := c.me(ctx)
	if err != nil {
		return nil, err
	}

	var reactions []NoteReaction
	if err := c.call(ctx, "notes/reactions", map[string]any{"noteId": id}, &reactions); err != nil {
		return nil, err
	}

	conv := c.Converter()
	conv.MeID = meID
	return conv.NoteReactions(reactions, n.ReactionEmojis), nil
}

// subscription is one channel joined over the shared connection.
type subscription struct {
	channel string
	params  map[string]any
}

func (c *Client) UserStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, subscription{channel: ChannelMain}, subscription{channel: ChannelHomeTimeline})
}

func (c *Client) PublicStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, subscription{channel: ChannelGlobalTimeline})
}

func (c *Client) LocalStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, subscription{channel: ChannelLocalTimeline})
}

// HybridStream follows the home and local timelines together.
func (c *Client) HybridStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, subscription{channel: ChannelHybridTimeline})
}

func (c *Client) TagStream(ctx context.Context, tag string) (streaming.Stream, error) {
	if err := megalodon.RequireArgument("tag", tag); err != nil {
		return nil, err
	}
	return c.stream(ctx, subscription{channel: ChannelHashtag, params: map[string]any{"q": [][]string{{tag}}}})
}

func (c *Client) ListStream(ctx context.Context, listID string) (streaming.Stream, error) {
	if err := megalodon.RequireArgument("list id", listID); err != nil {
		return nil, err
	}
	return c.stream(ctx, subscription{channel: ChannelUserList, params: map[string]any{"listId": listID}})
}

// DirectStream surfaces direct mentions from the main channel as conversations.
func (c *Client) DirectStream(ctx context.Context) (streaming.Stream, error) {
	return c.stream(ctx, subscription{channel: ChannelMain})
}

func (c *Client) stream(ctx context.Context, subs ...subscription) (streaming.Stream, error) {
	// The current user's id marks own reactions in streamed notes.
	if _, err := c.me(ctx); err != nil {
		c.logger.Debug("Streaming without the current user", "error", err)
	}

	channels := make(map[string]string, len(subs))
	frames := make([][]byte, 0, len(subs))
	for _, sub := range subs {
		id := uuid.NewString()
		channels[id] = sub.channel

		frame, err := connectFrame(id, sub)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	query := url.Values{}
	if token := c.REST.AccessToken(); token != "" {
		query.Set("i", token)
	}

	header := http.Header{}
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}

	s, err := streaming.NewSocket(streaming.SocketConfig{
		Platform:      megalodon.Misskey,
		URL:           streaming.WebsocketOrigin(c.REST.BaseURL()) + "/streaming?" + query.Encode(),
		Header:        header,
		Subscriptions: frames,
		Translate:     Translator(c.Converter()),
		NewParser:     func() streaming.Parser { return NewChannelParser(channels) },
		Dialer:        c.dialer,
		Clock:         c.cfg.Clock,
		Logger:        c.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func connectFrame(id string, sub subscription) ([]byte, error) {
	body := map[string]any{"channel": sub.channel, "id": id}
	if sub.params != nil {
		body["params"] = sub.params
	}

	frame, err := json.Marshal(map[string]any{"type": "connect", "body": body})
	if err != nil {
		return nil, fmt.Errorf("misskey: connect frame: %w", err)
	}
	return frame, nil
}
