package misskey

import (
	"encoding/json"
	"fmt"
	"time"
)

// Native Misskey entities. Misskey forks (Calckey, Firefish, Sharkey) share these shapes.

type User struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	Username       string  `json:"username"`
	Host           *string `json:"host"`
	AvatarURL      *string `json:"avatarUrl"`
	AvatarBlurhash *string `json:"avatarBlurhash"`
	IsBot          bool    `json:"isBot"`
	IsCat          bool    `json:"isCat"`
	Emojis         Emojis  `json:"emojis"`
}

type UserDetail struct {
	User

	URL            *string    `json:"url"`
	URI            *string    `json:"uri"`
	CreatedAt      time.Time  `json:"createdAt"`
	BannerURL      *string    `json:"bannerUrl"`
	IsLocked       bool       `json:"isLocked"`
	Description    *string    `json:"description"`
	FollowersCount int        `json:"followersCount"`
	FollowingCount int        `json:"followingCount"`
	NotesCount     int        `json:"notesCount"`
	Fields         []Field    `json:"fields"`
	MovedTo        *string    `json:"movedTo"`
	UpdatedAt      *time.Time `json:"updatedAt"`
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Emojis maps shortcodes to image URLs. Servers send either an object or a list of
// {name, url} pairs depending on version.
type Emojis map[string]string

func (e *Emojis) UnmarshalJSON(data []byte) error {
	var object map[string]string
	if err := json.Unmarshal(data, &object); err == nil {
		*e = object
		return nil
	}

	var list []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("misskey: emojis: %w", err)
	}

	out := make(Emojis, len(list))
	for _, emoji := range list {
		out[emoji.Name] = emoji.URL
	}
	*e = out
	return nil
}

type Note struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	UserID         string         `json:"userId"`
	User           User           `json:"user"`
	Text           *string        `json:"text"`
	CW             *string        `json:"cw"`
	Visibility     string         `json:"visibility"`
	LocalOnly      bool           `json:"localOnly"`
	RenoteCount    int            `json:"renoteCount"`
	RepliesCount   int            `json:"repliesCount"`
	Reactions      map[string]int `json:"reactions"`
	ReactionEmojis Emojis         `json:"reactionEmojis"`
	Emojis         Emojis         `json:"emojis"`
	Files          []File         `json:"files"`
	ReplyID        *string        `json:"replyId"`
	Reply          *Note          `json:"reply"`
	RenoteID       *string        `json:"renoteId"`
	Renote         *Note          `json:"renote"`
	Poll           *Poll          `json:"poll"`
	MyReaction     *string        `json:"myReaction"`
	Tags           []string       `json:"tags"`
	Mentions       []string       `json:"mentions"`
	VisibleUserIDs []string       `json:"visibleUserIds"`
	URI            *string        `json:"uri"`
	URL            *string        `json:"url"`
	UpdatedAt      *time.Time     `json:"updatedAt"`
}

type File struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Size         int64          `json:"size"`
	IsSensitive  bool           `json:"isSensitive"`
	Blurhash     *string        `json:"blurhash"`
	Properties   FileProperties `json:"properties"`
	URL          string         `json:"url"`
	ThumbnailURL *string        `json:"thumbnailUrl"`
	Comment      *string        `json:"comment"`
}

type FileProperties struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Poll struct {
	Multiple  bool         `json:"multiple"`
	ExpiresAt *time.Time   `json:"expiresAt"`
	Choices   []PollChoice `json:"choices"`
}

type PollChoice struct {
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	IsVoted bool   `json:"isVoted"`
}

type Notification struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
	UserID    *string   `json:"userId"`
	User      *User     `json:"user"`
	Note      *Note     `json:"note"`
	Reaction  *string   `json:"reaction"`
}

// NoteReaction is one user's reaction as returned by notes/reactions.
type NoteReaction struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `json:"user"`
	Type      string    `json:"type"`
}

type Meta struct {
	Name                *string  `json:"name"`
	Description         *string  `json:"description"`
	Version             string   `json:"version"`
	URI                 string   `json:"uri"`
	MaintainerName      *string  `json:"maintainerName"`
	MaintainerEmail     *string  `json:"maintainerEmail"`
	BannerURL           *string  `json:"bannerUrl"`
	IconURL             *string  `json:"iconUrl"`
	Langs               []string `json:"langs"`
	DisableRegistration bool     `json:"disableRegistration"`
	MaxNoteTextLength   int      `json:"maxNoteTextLength"`
}

type Stats struct {
	NotesCount         int `json:"notesCount"`
	OriginalNotesCount int `json:"originalNotesCount"`
	UsersCount         int `json:"usersCount"`
	OriginalUsersCount int `json:"originalUsersCount"`
	Instances          int `json:"instances"`
}
