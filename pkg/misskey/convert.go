package misskey

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
	"time"

	"megalodon/pkg/entity"
	"megalodon/pkg/streaming"

	"github.com/samber/lo"
)

const maxRenoteDepth = 2

// Converter turns native entities into the unified model. BaseURL builds links Misskey leaves
// implicit; MeID identifies the current user's reactions. Now decides whether a poll has expired;
// without it every poll is reported open.
type Converter struct {
	BaseURL string
	MeID    string
	Now     func() time.Time
}

var mfmEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"`", "&#x60;",
	"\r\n", "<br>",
	"\n", "<br>",
)

// EscapeMFM renders raw note text as HTML-safe content. The replacer scans once, so an escaped
// entity is never escaped again.
func EscapeMFM(text string) string {
	return mfmEscaper.Replace(text)
}

func (c Converter) Account(u User) entity.Account {
	host := lo.FromPtr(u.Host)
	avatar := lo.FromPtr(u.AvatarURL)
	name := lo.FromPtr(u.Name)
	if name == "" {
		name = u.Username
	}

	return entity.Account{
		ID:           u.ID,
		Username:     u.Username,
		Acct:         entity.Acct(u.Username, host),
		DisplayName:  name,
		Bot:          u.IsBot,
		URL:          c.profileURL(u.Username, host),
		Avatar:       avatar,
		AvatarStatic: avatar,
		Emojis:       convertEmojis(u.Emojis),
		Fields:       []entity.Field{},
	}
}

func (c Converter) AccountDetail(u UserDetail) entity.Account {
	out := c.Account(u.User)
	if u.URL != nil {
		out.URL = *u.URL
	}
	out.CreatedAt = u.CreatedAt
	out.Locked = u.IsLocked
	out.Note = lo.FromPtr(u.Description)
	out.Header = lo.FromPtr(u.BannerURL)
	out.HeaderStatic = out.Header
	out.FollowersCount = u.FollowersCount
	out.FollowingCount = u.FollowingCount
	out.StatusesCount = u.NotesCount
	out.Fields = lo.Map(u.Fields, func(f Field, _ int) entity.Field {
		return entity.Field{Name: f.Name, Value: f.Value}
	})
	return out
}

func (c Converter) profileURL(username, host string) string {
	if host == "" {
		return c.BaseURL + "/@" + username
	}
	return "https://" + host + "/@" + username
}

func (c Converter) noteURL(id string) string {
	return c.BaseURL + "/notes/" + id
}

// IsPureRenote reports whether n only boosts another note, as opposed to quoting it.
func IsPureRenote(n *Note) bool {
	return n.Renote != nil && lo.FromPtr(n.Text) == "" && len(n.Files) == 0 && n.Poll == nil
}

func (c Converter) Status(n *Note) entity.Status {
	return c.status(n, 0)
}

func (c Converter) status(n *Note, depth int) entity.Status {
	uri := c.noteURL(n.ID)
	if n.URI != nil {
		uri = *n.URI
	}
	link := uri
	if n.URL != nil {
		link = *n.URL
	}

	out := entity.Status{
		ID:               n.ID,
		URI:              uri,
		URL:              link,
		Account:          c.Account(n.User),
		InReplyToID:      n.ReplyID,
		Content:          EscapeMFM(lo.FromPtr(n.Text)),
		CreatedAt:        n.CreatedAt,
		EditedAt:         n.UpdatedAt,
		Emojis:           convertEmojis(n.Emojis),
		RepliesCount:     n.RepliesCount,
		ReblogsCount:     n.RenoteCount,
		FavouritesCount:  lo.Sum(lo.Values(n.Reactions)),
		Favourited:       n.MyReaction != nil,
		SpoilerText:      lo.FromPtr(n.CW),
		Sensitive:        n.CW != nil || hasSensitiveFile(n.Files),
		Visibility:       DecodeVisibility(n.Visibility, n.LocalOnly),
		MediaAttachments: lo.Map(n.Files, func(f File, _ int) entity.Attachment { return ConvertFile(f) }),
		Mentions: lo.Map(n.Mentions, func(id string, _ int) entity.Mention {
			return entity.Mention{ID: id}
		}),
		Tags: lo.Map(n.Tags, func(tag string, _ int) entity.Tag {
			return entity.Tag{Name: tag, URL: c.BaseURL + "/tags/" + url.PathEscape(tag)}
		}),
		Poll:           c.poll(n),
		EmojiReactions: c.Reactions(n.Reactions, n.MyReaction, n.ReactionEmojis),
	}
	if n.Text != nil {
		plain := *n.Text
		out.PlainContent = &plain
	}
	if n.Reply != nil {
		replyTo := n.Reply.UserID
		out.InReplyToAccountID = &replyTo
	}

	if n.Renote != nil && n.Renote.ID != n.ID && depth < maxRenoteDepth {
		renote := c.status(n.Renote, depth+1)
		if IsPureRenote(n) {
			out.Reblog = &renote
		} else {
			out.Quote = &renote
		}
	}
	return out
}

func hasSensitiveFile(files []File) bool {
	for _, f := range files {
		if f.IsSensitive {
			return true
		}
	}
	return false
}

func ConvertFile(f File) entity.Attachment {
	out := entity.Attachment{
		ID:          f.ID,
		Type:        attachmentType(f.Type),
		URL:         f.URL,
		PreviewURL:  f.ThumbnailURL,
		Description: f.Comment,
		Blurhash:    f.Blurhash,
	}
	if f.Properties.Width > 0 && f.Properties.Height > 0 {
		out.Meta = &entity.AttachmentMeta{
			Width:  f.Properties.Width,
			Height: f.Properties.Height,
			Aspect: float64(f.Properties.Width) / float64(f.Properties.Height),
		}
	}
	return out
}

func attachmentType(mime string) entity.AttachmentType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return entity.AttachmentImage
	case strings.HasPrefix(mime, "video/"):
		return entity.AttachmentVideo
	case strings.HasPrefix(mime, "audio/"):
		return entity.AttachmentAudio
	default:
		return entity.AttachmentUnknown
	}
}

// poll borrows the note id: Misskey polls have none of their own.
func (c Converter) poll(n *Note) *entity.Poll {
	if n.Poll == nil {
		return nil
	}

	out := &entity.Poll{
		ID:        n.ID,
		ExpiresAt: n.Poll.ExpiresAt,
		Expired:   c.Now != nil && n.Poll.ExpiresAt != nil && !n.Poll.ExpiresAt.After(c.Now()),
		Multiple:  n.Poll.Multiple,
		OwnVotes:  []int{},
	}
	for i, choice := range n.Poll.Choices {
		votes := choice.Votes
		out.Options = append(out.Options, entity.PollOption{Title: choice.Text, VotesCount: &votes})
		out.VotesCount += votes
		if choice.IsVoted {
			out.Voted = true
			out.OwnVotes = append(out.OwnVotes, i)
		}
	}
	return out
}

// Reactions aggregates a note's reaction counts, largest first, ties broken by name.
func (c Converter) Reactions(counts map[string]int, myReaction *string, emojis Emojis) []entity.Reaction {
	out := make([]entity.Reaction, 0, len(counts))
	for name, count := range counts {
		r := entity.Reaction{
			Name:  name,
			Count: count,
			Me:    myReaction != nil && *myReaction == name,
		}
		if u, ok := emojiURL(name, emojis); ok {
			r.URL, r.StaticURL = &u, &u
		}
		out = append(out, r)
	}

	slices.SortFunc(out, func(a, b entity.Reaction) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// NoteReactions aggregates individual reactions in order of first appearance.
func (c Converter) NoteReactions(reactions []NoteReaction, emojis Emojis) []entity.Reaction {
	out := []entity.Reaction{}
	index := map[string]int{}
	me := false

	for _, r := range reactions {
		i, ok := index[r.Type]
		if !ok {
			i = len(out)
			index[r.Type] = i

			aggregate := entity.Reaction{Name: r.Type}
			if u, ok := emojiURL(r.Type, emojis); ok {
				aggregate.URL, aggregate.StaticURL = &u, &u
			}
			out = append(out, aggregate)
		}

		out[i].Count++
		out[i].AccountIDs = append(out[i].AccountIDs, r.User.ID)
		if !me && c.MeID != "" && r.User.ID == c.MeID {
			out[i].Me = true
			me = true
		}
	}
	return out
}

// emojiURL resolves a custom reaction such as ":blobcat@.:" against the note's emoji map.
// Unicode reactions have no image.
func emojiURL(reaction string, emojis Emojis) (string, bool) {
	if !strings.HasPrefix(reaction, ":") || !strings.HasSuffix(reaction, ":") || len(reaction) < 3 {
		return "", false
	}

	name := reaction[1 : len(reaction)-1]
	if u, ok := emojis[name]; ok {
		return u, true
	}
	u, ok := emojis[strings.TrimSuffix(name, "@.")]
	return u, ok
}

func convertEmojis(emojis Emojis) []entity.Emoji {
	out := lo.MapToSlice(emojis, func(name, u string) entity.Emoji {
		return entity.Emoji{Shortcode: name, URL: u, StaticURL: u, VisibleInPicker: true}
	})
	slices.SortFunc(out, func(a, b entity.Emoji) int { return cmp.Compare(a.Shortcode, b.Shortcode) })
	return out
}

func (c Converter) Notification(n *Notification) (entity.Notification, error) {
	t, err := DecodeNotificationType(n.Type)
	if err != nil {
		return entity.Notification{}, err
	}

	out := entity.Notification{
		ID:        n.ID,
		Type:      t,
		CreatedAt: n.CreatedAt,
	}
	if n.User != nil {
		account := c.Account(*n.User)
		out.Account = &account
	}
	if n.Note != nil {
		status := c.Status(n.Note)
		out.Status = &status
	}
	if t == entity.NotificationEmojiReaction && n.Reaction != nil {
		r := entity.Reaction{Name: *n.Reaction, Count: 1}
		if n.User != nil {
			r.AccountIDs = []string{n.User.ID}
		}
		if n.Note != nil {
			if u, ok := emojiURL(*n.Reaction, n.Note.ReactionEmojis); ok {
				r.URL, r.StaticURL = &u, &u
			}
		}
		out.Reaction = &r
	}
	return out, nil
}

// Notifications drops notifications whose type is unknown, keeping the order of the rest.
func (c Converter) Notifications(ns []Notification) []entity.Notification {
	return lo.FilterMap(ns, func(n Notification, _ int) (entity.Notification, bool) {
		out, err := c.Notification(&n)
		return out, err == nil
	})
}

// Conversation wraps a direct note: Misskey has no conversation entity of its own.
func (c Converter) Conversation(n *Note) entity.Conversation {
	last := c.Status(n)
	return entity.Conversation{
		ID:         n.ID,
		Accounts:   []entity.Account{c.Account(n.User)},
		LastStatus: &last,
		Unread:     true,
	}
}

func (c Converter) Instance(meta *Meta, stats *Stats) entity.Instance {
	out := entity.Instance{
		URI:           meta.URI,
		Title:         lo.FromPtr(meta.Name),
		Description:   lo.FromPtr(meta.Description),
		Email:         lo.FromPtr(meta.MaintainerEmail),
		Version:       meta.Version,
		Thumbnail:     meta.BannerURL,
		StreamingURL:  streaming.WebsocketOrigin(c.BaseURL),
		Languages:     meta.Langs,
		Registrations: !meta.DisableRegistration,
		MaxTootChars:  meta.MaxNoteTextLength,
	}
	if out.URI == "" {
		out.URI = c.BaseURL
	}
	if stats != nil {
		out.Stats = entity.InstanceStats{
			UserCount:   stats.OriginalUsersCount,
			StatusCount: stats.OriginalNotesCount,
			DomainCount: stats.Instances,
		}
	}
	return out
}
