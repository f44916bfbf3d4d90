package pleroma

import (
	"time"

	"megalodon/pkg/mastodon"
)

// Pleroma and Akkoma extend the Mastodon entities with a "pleroma" object.

type Status struct {
	mastodon.Status

	Reblog  *Status          `json:"reblog"`
	Pleroma StatusExtensions `json:"pleroma"`
}

type StatusExtensions struct {
	// Content holds the body keyed by MIME type.
	Content        map[string]string `json:"content"`
	SpoilerText    map[string]string `json:"spoiler_text"`
	Local          bool              `json:"local"`
	ConversationID int64             `json:"conversation_id"`
	ThreadMuted    *bool             `json:"thread_muted"`
	EmojiReactions []Reaction        `json:"emoji_reactions"`
}

type Reaction struct {
	Name     string             `json:"name"`
	Count    int                `json:"count"`
	Me       bool               `json:"me"`
	URL      *string            `json:"url"`
	Accounts []mastodon.Account `json:"accounts"`
}

type Notification struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	CreatedAt time.Time         `json:"created_at"`
	Account   mastodon.Account  `json:"account"`
	Status    *Status           `json:"status"`
	Emoji     *string           `json:"emoji"`
	EmojiURL  *string           `json:"emoji_url"`
	Target    *mastodon.Account `json:"target"`
}

type Conversation struct {
	ID         string             `json:"id"`
	Accounts   []mastodon.Account `json:"accounts"`
	LastStatus *Status            `json:"last_status"`
	Unread     bool               `json:"unread"`
}
