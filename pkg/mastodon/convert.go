package mastodon

import (
	"megalodon/pkg/entity"

	"github.com/samber/lo"
)

// maxReblogDepth bounds reblog recursion; servers nest at most one level.
const maxReblogDepth = 2

func ConvertAccount(a Account) entity.Account {
	return convertAccount(a, 0)
}

func convertAccount(a Account, depth int) entity.Account {
	out := entity.Account{
		ID:             a.ID,
		Username:       a.Username,
		Acct:           a.Acct,
		DisplayName:    a.DisplayName,
		Locked:         a.Locked,
		Discoverable:   a.Discoverable,
		Group:          a.Group,
		Bot:            a.Bot,
		CreatedAt:      a.CreatedAt,
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
		StatusesCount:  a.StatusesCount,
		Note:           a.Note,
		URL:            a.URL,
		Avatar:         a.Avatar,
		AvatarStatic:   a.AvatarStatic,
		Header:         a.Header,
		HeaderStatic:   a.HeaderStatic,
		Emojis:         ConvertEmojis(a.Emojis),
		Fields: lo.Map(a.Fields, func(f Field, _ int) entity.Field {
			return entity.Field{Name: f.Name, Value: f.Value, VerifiedAt: f.VerifiedAt}
		}),
	}
	if a.Moved != nil && a.Moved.ID != a.ID && depth < maxReblogDepth {
		moved := convertAccount(*a.Moved, depth+1)
		out.Moved = &moved
	}
	return out
}

func ConvertEmojis(emojis []Emoji) []entity.Emoji {
	return lo.Map(emojis, func(e Emoji, _ int) entity.Emoji {
		return entity.Emoji{
			Shortcode:       e.Shortcode,
			URL:             e.URL,
			StaticURL:       e.StaticURL,
			VisibleInPicker: e.VisibleInPicker,
			Category:        e.Category,
		}
	})
}

func ConvertStatus(s *Status) entity.Status {
	return convertStatus(s, 0)
}

func convertStatus(s *Status, depth int) entity.Status {
	out := StatusFields(s)
	if s.Reblog != nil && s.Reblog.ID != s.ID && depth < maxReblogDepth {
		reblog := convertStatus(s.Reblog, depth+1)
		out.Reblog = &reblog
	}
	return out
}

// StatusFields converts everything but the reblog. Variants that extend Status reuse it and
// attach their own reblog conversion.
func StatusFields(s *Status) entity.Status {
	return entity.Status{
		ID:                 s.ID,
		URI:                s.URI,
		URL:                lo.FromPtr(s.URL),
		Account:            ConvertAccount(s.Account),
		InReplyToID:        s.InReplyToID,
		InReplyToAccountID: s.InReplyToAccountID,
		Content:            s.Content,
		PlainContent:       nil,
		CreatedAt:          s.CreatedAt,
		EditedAt:           s.EditedAt,
		Emojis:             ConvertEmojis(s.Emojis),
		RepliesCount:       s.RepliesCount,
		ReblogsCount:       s.ReblogsCount,
		FavouritesCount:    s.FavouritesCount,
		Reblogged:          lo.FromPtr(s.Reblogged),
		Favourited:         lo.FromPtr(s.Favourited),
		Muted:              lo.FromPtr(s.Muted),
		Bookmarked:         lo.FromPtr(s.Bookmarked),
		Pinned:             lo.FromPtr(s.Pinned),
		Sensitive:          s.Sensitive,
		SpoilerText:        s.SpoilerText,
		Visibility:         DecodeVisibility(s.Visibility),
		MediaAttachments:   lo.Map(s.MediaAttachments, func(a Attachment, _ int) entity.Attachment { return ConvertAttachment(a) }),
		Mentions:           lo.Map(s.Mentions, func(m Mention, _ int) entity.Mention { return entity.Mention(m) }),
		Tags:               lo.Map(s.Tags, func(t Tag, _ int) entity.Tag { return entity.Tag(t) }),
		Card:               ConvertCard(s.Card),
		Poll:               ConvertPoll(s.Poll),
		Application:        ConvertApplication(s.Application),
		Language:           s.Language,
		EmojiReactions:     []entity.Reaction{},
	}
}

func ConvertAttachment(a Attachment) entity.Attachment {
	out := entity.Attachment{
		ID:          a.ID,
		Type:        attachmentType(a.Type),
		URL:         a.URL,
		RemoteURL:   a.RemoteURL,
		PreviewURL:  a.PreviewURL,
		Description: a.Description,
		Blurhash:    a.Blurhash,
	}
	if a.Meta != nil && a.Meta.Original != nil {
		out.Meta = &entity.AttachmentMeta{
			Width:  a.Meta.Original.Width,
			Height: a.Meta.Original.Height,
			Aspect: a.Meta.Original.Aspect,
		}
	}
	return out
}

func attachmentType(native string) entity.AttachmentType {
	switch t := entity.AttachmentType(native); t {
	case entity.AttachmentImage, entity.AttachmentGIFV, entity.AttachmentVideo, entity.AttachmentAudio:
		return t
	default:
		return entity.AttachmentUnknown
	}
}

func ConvertCard(c *Card) *entity.Card {
	if c == nil {
		return nil
	}
	out := entity.Card(*c)
	return &out
}

func ConvertPoll(p *Poll) *entity.Poll {
	if p == nil {
		return nil
	}
	return &entity.Poll{
		ID:          p.ID,
		ExpiresAt:   p.ExpiresAt,
		Expired:     p.Expired,
		Multiple:    p.Multiple,
		VotesCount:  p.VotesCount,
		VotersCount: p.VotersCount,
		Options:     lo.Map(p.Options, func(o PollOption, _ int) entity.PollOption { return entity.PollOption(o) }),
		Voted:       lo.FromPtr(p.Voted),
		OwnVotes:    p.OwnVotes,
	}
}

func ConvertApplication(a *Application) *entity.Application {
	if a == nil {
		return nil
	}
	out := entity.Application(*a)
	return &out
}

func ConvertNotification(n *Notification) (entity.Notification, error) {
	return ConvertNotificationWith(n, DecodeNotificationType)
}

// ConvertNotificationWith converts n using a variant's notification vocabulary.
func ConvertNotificationWith(n *Notification, decode NotificationDecoder) (entity.Notification, error) {
	t, err := decode(n.Type)
	if err != nil {
		return entity.Notification{}, err
	}

	account := ConvertAccount(n.Account)
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
	return out, nil
}

// ConvertNotifications drops notifications whose type is unknown, keeping the order of the rest.
func ConvertNotifications(ns []Notification, decode NotificationDecoder) []entity.Notification {
	return lo.FilterMap(ns, func(n Notification, _ int) (entity.Notification, bool) {
		out, err := ConvertNotificationWith(&n, decode)
		return out, err == nil
	})
}

func ConvertConversation(c *Conversation) entity.Conversation {
	out := entity.Conversation{
		ID:       c.ID,
		Accounts: lo.Map(c.Accounts, func(a Account, _ int) entity.Account { return ConvertAccount(a) }),
		Unread:   c.Unread,
	}
	if c.LastStatus != nil {
		last := ConvertStatus(c.LastStatus)
		out.LastStatus = &last
	}
	return out
}

func ConvertInstance(i *Instance) entity.Instance {
	out := entity.Instance{
		URI:              i.URI,
		Title:            i.Title,
		Description:      lo.Ternary(i.Description != "", i.Description, i.ShortDescription),
		Email:            i.Email,
		Version:          i.Version,
		Thumbnail:        i.Thumbnail,
		StreamingURL:     i.URLs.StreamingAPI,
		Stats:            entity.InstanceStats(i.Stats),
		Languages:        i.Languages,
		Registrations:    i.Registrations,
		ApprovalRequired: i.ApprovalRequired,
	}
	if i.Configuration != nil {
		out.MaxTootChars = i.Configuration.Statuses.MaxCharacters
	}
	if i.ContactAccount != nil {
		contact := ConvertAccount(*i.ContactAccount)
		out.ContactAccount = &contact
	}
	return out
}
