package mastodon_test

import (
	"time"

	"megalodon/pkg/mastodon"

	"github.com/samber/lo"
)

var createdAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func account(id, acct string) mastodon.Account {
	return mastodon.Account{
		ID:          id,
		Username:    acct,
		Acct:        acct,
		DisplayName: "Display " + id,
		CreatedAt:   createdAt,
		URL:         "https://example.social/@" + acct,
		Avatar:      "https://example.social/avatars/" + id + ".png",
		Emojis:      []mastodon.Emoji{{Shortcode: "blobcat", URL: "https://example.social/emoji/blobcat.png"}},
		Fields:      []mastodon.Field{{Name: "site", Value: "https://example.org"}},
	}
}

func status(id string) *mastodon.Status {
	return &mastodon.Status{
		ID:         id,
		URI:        "https://example.social/users/alice/statuses/" + id,
		URL:        lo.ToPtr("https://example.social/@alice/" + id),
		Account:    account("1", "alice"),
		Content:    "<p>hello &amp; welcome</p>",
		CreatedAt:  createdAt,
		Visibility: "public",
		Favourited: lo.ToPtr(true),
		MediaAttachments: []mastodon.Attachment{{
			ID:   "m1",
			Type: "image",
			URL:  "https://example.social/media/m1.png",
			Meta: &mastodon.AttachmentMeta{Original: &mastodon.AttachmentSize{Width: 640, Height: 480, Aspect: 1.33}},
		}},
		Mentions: []mastodon.Mention{{ID: "2", Username: "bob", Acct: "bob@remote.example", URL: "https://remote.example/@bob"}},
		Tags:     []mastodon.Tag{{Name: "go", URL: "https://example.social/tags/go"}},
		Poll: &mastodon.Poll{
			ID:         "p1",
			VotesCount: 3,
			Options:    []mastodon.PollOption{{Title: "yes", VotesCount: lo.ToPtr(2)}, {Title: "no", VotesCount: lo.ToPtr(1)}},
		},
	}
}

func notification(id, typ string) mastodon.Notification {
	return mastodon.Notification{
		ID:        id,
		Type:      typ,
		CreatedAt: createdAt,
		Account:   account("3", "carol@remote.example"),
		Status:    status("100"),
	}
}
