package misskey_test

import (
	"time"

	"megalodon/pkg/misskey"

	"github.com/samber/lo"
)

var createdAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var conv = misskey.Converter{
	BaseURL: "https://misskey.example",
	MeID:    "me",
	Now:     func() time.Time { return createdAt },
}

func user(id, username string, host *string) misskey.User {
	return misskey.User{
		ID:        id,
		Username:  username,
		Host:      host,
		Name:      lo.ToPtr("User " + id),
		AvatarURL: lo.ToPtr("https://misskey.example/avatar/" + id),
		Emojis:    misskey.Emojis{"blobcat": "https://misskey.example/emoji/blobcat.png"},
	}
}

func note(id, text string) *misskey.Note {
	return &misskey.Note{
		ID:         id,
		CreatedAt:  createdAt,
		UserID:     "1",
		User:       user("1", "alice", nil),
		Text:       lo.ToPtr(text),
		Visibility: "public",
		Reactions:  map[string]int{"👍": 2, ":blobcat@.:": 3, "❤": 2},
		ReactionEmojis: misskey.Emojis{
			"blobcat": "https://misskey.example/emoji/blobcat.png",
		},
		MyReaction: lo.ToPtr("❤"),
		Tags:       []string{"golang"},
	}
}
