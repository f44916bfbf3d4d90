package pleroma

import (
	"megalodon/pkg/entity"
	"megalodon/pkg/mastodon"

	"github.com/samber/lo"
)

const maxReblogDepth = 2

func ConvertStatus(s *Status) entity.Status {
	return convertStatus(s, 0)
}

func convertStatus(s *Status, depth int) entity.Status {
	out := mastodon.StatusFields(&s.Status)
	out.Visibility = DecodeVisibility(s.Visibility)
	if plain, ok := s.Pleroma.Content["text/plain"]; ok {
		out.PlainContent = &plain
	}
	out.EmojiReactions = ConvertReactions(s.Pleroma.EmojiReactions)

	if s.Reblog != nil && s.Reblog.ID != s.ID && depth < maxReblogDepth {
		reblog := convertStatus(s.Reblog, depth+1)
		out.Reblog = &reblog
	}
	return out
}

// ConvertReactions keeps the server's aggregation and order.
func ConvertReactions(reactions []Reaction) []entity.Reaction {
	out := lo.Map(reactions, func(r Reaction, _ int) entity.Reaction {
		return entity.Reaction{
			Name:      r.Name,
			Count:     r.Count,
			Me:        r.Me,
			URL:       r.URL,
			StaticURL: r.URL,
			AccountIDs: lo.Map(r.Accounts, func(a mastodon.Account, _ int) string {
				return a.ID
			}),
		}
	})
	if out == nil {
		return []entity.Reaction{}
	}
	return out
}

func ConvertNotification(n *Notification) (entity.Notification, error) {
	t, err := DecodeNotificationType(n.Type)
	if err != nil {
		return entity.Notification{}, err
	}

	account := mastodon.ConvertAccount(n.Account)
	out := entity.Notification{
		ID:        n.ID,
		Type:      t,
		CreatedAt: n.CreatedAt,
		Account:   &account,
	}
	if n.Status != nil {
		status := ConvertStatus(n.Status)
		out.Status = &status
	}
	if t == entity.NotificationEmojiReaction && n.Emoji != nil {
		out.Reaction = &entity.Reaction{
			Name:       *n.Emoji,
			Count:      1,
			URL:        n.EmojiURL,
			StaticURL:  n.EmojiURL,
			AccountIDs: []string{n.Account.ID},
		}
	}
	if n.Target != nil {
		target := mastodon.ConvertAccount(*n.Target)
		out.Target = &target
	}
	return out, nil
}

// ConvertNotifications drops notifications whose type is unknown, keeping the order of the rest.
func ConvertNotifications(ns []Notification) []entity.Notification {
	return lo.FilterMap(ns, func(n Notification, _ int) (entity.Notification, bool) {
		out, err := ConvertNotification(&n)
		return out, err == nil
	})
}

func ConvertConversation(c *Conversation) entity.Conversation {
	out := entity.Conversation{
		ID:       c.ID,
		Accounts: lo.Map(c.Accounts, func(a mastodon.Account, _ int) entity.Account { return mastodon.ConvertAccount(a) }),
		Unread:   c.Unread,
	}
	if c.LastStatus != nil {
		last := ConvertStatus(c.LastStatus)
		out.LastStatus = &last
	}
	return out
}
