package pleroma

import (
	"context"
	"net/url"

	"megalodon/pkg/entity"
	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
)

type Config = mastodon.Config

// Client speaks the Mastodon API plus the Pleroma extensions. Methods returning statuses or
// notifications decode the extended entities.
type Client struct {
	*mastodon.Client
}

func New(cfg Config) (*Client, error) {
	c, err := mastodon.NewVariant(cfg, mastodon.Variant{
		Platform:           megalodon.Pleroma,
		DecodeNotification: DecodeNotificationType,
		Translate:          Translate,
	})
	if err != nil {
		return nil, err
	}
	return &Client{Client: c}, nil
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
	return convertStatuses(statuses), nil
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

func (c *Client) GetNotifications(ctx context.Context, page megalodon.Page) ([]entity.Notification, error) {
	var notifications []Notification
	if err := c.REST.Get(ctx, "/api/v1/notifications", page.Values(), &notifications); err != nil {
		return nil, err
	}

	out := ConvertNotifications(notifications)
	if dropped := len(notifications) - len(out); dropped > 0 {
		c.Logger().Debug("Dropped notifications of unknown type", "count", dropped)
	}
	return out, nil
}

func (c *Client) CreateEmojiReaction(ctx context.Context, id, emoji string) (entity.Status, error) {
	return c.react(ctx, c.REST.Put, id, emoji)
}

func (c *Client) DeleteEmojiReaction(ctx context.Context, id, emoji string) (entity.Status, error) {
	return c.react(ctx, c.REST.Delete, id, emoji)
}

func (c *Client) GetEmojiReactions(ctx context.Context, id string) ([]entity.Reaction, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return nil, err
	}

	var reactions []Reaction
	if err := c.REST.Get(ctx, "/api/v1/pleroma/statuses/"+url.PathEscape(id)+"/reactions", nil, &reactions); err != nil {
		return nil, err
	}
	return ConvertReactions(reactions), nil
}

type sendFunc func(ctx context.Context, path string, body, result any) error

func (c *Client) react(ctx context.Context, send sendFunc, id, emoji string) (entity.Status, error) {
	if err := megalodon.RequireArgument("status id", id); err != nil {
		return entity.Status{}, err
	}
	if err := megalodon.RequireArgument("emoji", emoji); err != nil {
		return entity.Status{}, err
	}

	var s Status
	path := "/api/v1/pleroma/statuses/" + url.PathEscape(id) + "/reactions/" + url.PathEscape(emoji)
	if err := send(ctx, path, nil, &s); err != nil {
		return entity.Status{}, err
	}
	return ConvertStatus(&s), nil
}

func convertStatuses(statuses []Status) []entity.Status {
	out := make([]entity.Status, 0, len(statuses))
	for i := range statuses {
		out = append(out, ConvertStatus(&statuses[i]))
	}
	return out
}
