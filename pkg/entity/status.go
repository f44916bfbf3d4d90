package entity

import "time"

type Status struct {
	ID                 string       `json:"id"`
	URI                string       `json:"uri"`
	URL                string       `json:"url"`
	Account            Account      `json:"account"`
	InReplyToID        *string      `json:"in_reply_to_id"`
	InReplyToAccountID *string      `json:"in_reply_to_account_id"`
	Reblog             *Status      `json:"reblog"`
	Quote              *Status      `json:"quote,omitempty"`
	Content            string       `json:"content"`
	PlainContent       *string      `json:"plain_content"`
	CreatedAt          time.Time    `json:"created_at"`
	EditedAt           *time.Time   `json:"edited_at"`
	Emojis             []Emoji      `json:"emojis"`
	RepliesCount       int          `json:"replies_count"`
	ReblogsCount       int          `json:"reblogs_count"`
	FavouritesCount    int          `json:"favourites_count"`
	Reblogged          bool         `json:"reblogged"`
	Favourited         bool         `json:"favourited"`
	Muted              bool         `json:"muted"`
	Sensitive          bool         `json:"sensitive"`
	SpoilerText        string       `json:"spoiler_text"`
	Visibility         Visibility   `json:"visibility"`
	MediaAttachments   []Attachment `json:"media_attachments"`
	Mentions           []Mention    `json:"mentions"`
	Tags               []Tag        `json:"tags"`
	Card               *Card        `json:"card"`
	Poll               *Poll        `json:"poll"`
	Application        *Application `json:"application"`
	Language           *string      `json:"language"`
	Pinned             bool         `json:"pinned"`
	Bookmarked         bool         `json:"bookmarked"`
	EmojiReactions     []Reaction   `json:"emoji_reactions"`
}

type AttachmentType string

const (
	AttachmentUnknown AttachmentType = "unknown"
	AttachmentImage   AttachmentType = "image"
	AttachmentGIFV    AttachmentType = "gifv"
	AttachmentVideo   AttachmentType = "video"
	AttachmentAudio   AttachmentType = "audio"
)

type Attachment struct {
	ID          string          `json:"id"`
	Type        AttachmentType  `json:"type"`
	URL         string          `json:"url"`
	RemoteURL   *string         `json:"remote_url"`
	PreviewURL  *string         `json:"preview_url"`
	Meta        *AttachmentMeta `json:"meta,omitempty"`
	Description *string         `json:"description"`
	Blurhash    *string         `json:"blurhash"`
}

type AttachmentMeta struct {
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Aspect float64 `json:"aspect,omitempty"`
}

type Mention struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Acct     string `json:"acct"`
}

type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Card struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Image        *string `json:"image"`
	AuthorName   string  `json:"author_name"`
	ProviderName string  `json:"provider_name"`
}

type Poll struct {
	ID          string       `json:"id"`
	ExpiresAt   *time.Time   `json:"expires_at"`
	Expired     bool         `json:"expired"`
	Multiple    bool         `json:"multiple"`
	VotesCount  int          `json:"votes_count"`
	VotersCount *int         `json:"voters_count"`
	Options     []PollOption `json:"options"`
	Voted       bool         `json:"voted"`
	OwnVotes    []int        `json:"own_votes"`
}

type PollOption struct {
	Title      string `json:"title"`
	VotesCount *int   `json:"votes_count"`
}

type Application struct {
	Name    string  `json:"name"`
	Website *string `json:"website"`
}

// Reaction is an aggregate of every user's reaction with the same name.
type Reaction struct {
	Name       string   `json:"name"`
	Count      int      `json:"count"`
	Me         bool     `json:"me"`
	URL        *string  `json:"url,omitempty"`
	StaticURL  *string  `json:"static_url,omitempty"`
	AccountIDs []string `json:"account_ids,omitempty"`
}

type Conversation struct {
	ID         string    `json:"id"`
	Accounts   []Account `json:"accounts"`
	LastStatus *Status   `json:"last_status"`
	Unread     bool      `json:"unread"`
}
