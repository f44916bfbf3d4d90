package pleroma_test

import (
	"encoding/json"
	"testing"

	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/pleroma"
	"megalodon/pkg/streaming"

	"github.com/stretchr/testify/require"
)

const statusJSON = `{
	"id": "9",
	"uri": "https://pl.example/objects/9",
	"url": "https://pl.example/notice/9",
	"account": {"id": "1", "username": "alice", "acct": "alice", "created_at": "2024-03-01T12:00:00Z"},
	"content": "<p>hi &lt;3</p>",
	"created_at": "2024-03-01T12:00:00Z",
	"visibility": "list",
	"reblog": {
		"id": "8",
		"uri": "https://pl.example/objects/8",
		"account": {"id": "2", "username": "bob", "acct": "bob@remote.example", "created_at": "2024-03-01T12:00:00Z"},
		"content": "original",
		"created_at": "2024-03-01T11:00:00Z",
		"visibility": "local",
		"pleroma": {"content": {"text/plain": "original"}}
	},
	"pleroma": {
		"content": {"text/plain": "hi <3"},
		"local": true,
		"emoji_reactions": [
			{"name": "👍", "count": 2, "me": true, "accounts": [{"id": "1"}, {"id": "5"}]},
			{"name": "blobcat", "count": 1, "me": false, "url": "https://pl.example/emoji/blobcat.png"}
		]
	}
}`

func decodeStatus(t *testing.T, raw string) *pleroma.Status {
	t.Helper()

	var s pleroma.Status
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

func TestConvertStatus(t *testing.T) {
	t.Parallel()

	s := pleroma.ConvertStatus(decodeStatus(t, statusJSON))

	require.Equal(t, "9", s.ID)
	require.Equal(t, "https://pl.example/notice/9", s.URL)
	require.Equal(t, entity.VisibilityPrivate, s.Visibility)
	require.NotNil(t, s.PlainContent)
	require.Equal(t, "hi <3", *s.PlainContent)

	require.Len(t, s.EmojiReactions, 2)
	require.Equal(t, entity.Reaction{Name: "👍", Count: 2, Me: true, AccountIDs: []string{"1", "5"}}, s.EmojiReactions[0])
	require.Equal(t, "blobcat", s.EmojiReactions[1].Name)
	require.Equal(t, "https://pl.example/emoji/blobcat.png", *s.EmojiReactions[1].URL)

	require.NotNil(t, s.Reblog)
	require.Equal(t, "8", s.Reblog.ID)
	require.Equal(t, entity.VisibilityLocal, s.Reblog.Visibility)
	require.Equal(t, "bob@remote.example", s.Reblog.Account.Acct)
	require.Empty(t, s.Reblog.EmojiReactions)
	require.NotNil(t, s.Reblog.EmojiReactions)
}

func TestConvertStatus_Idempotent(t *testing.T) {
	t.Parallel()

	native := decodeStatus(t, statusJSON)
	require.Equal(t, pleroma.ConvertStatus(native), pleroma.ConvertStatus(native))
}

func TestConvertStatus_SelfReblog(t *testing.T) {
	t.Parallel()

	native := decodeStatus(t, statusJSON)
	native.Reblog = native

	s := pleroma.ConvertStatus(native)
	require.Nil(t, s.Reblog)
}

func TestConvertNotification(t *testing.T) {
	t.Parallel()

	t.Run("emoji reaction", func(t *testing.T) {
		t.Parallel()

		var n pleroma.Notification
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": "1",
			"type": "pleroma:emoji_reaction",
			"created_at": "2024-03-01T12:00:00Z",
			"account": {"id": "7", "username": "carol", "acct": "carol"},
			"emoji": "blobcat",
			"emoji_url": "https://pl.example/emoji/blobcat.png"
		}`), &n))

		out, err := pleroma.ConvertNotification(&n)
		require.NoError(t, err)
		require.Equal(t, entity.NotificationEmojiReaction, out.Type)
		require.NotNil(t, out.Reaction)
		require.Equal(t, "blobcat", out.Reaction.Name)
		require.Equal(t, []string{"7"}, out.Reaction.AccountIDs)
	})

	t.Run("move", func(t *testing.T) {
		t.Parallel()

		var n pleroma.Notification
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": "2",
			"type": "move",
			"created_at": "2024-03-01T12:00:00Z",
			"account": {"id": "7", "username": "carol", "acct": "carol"},
			"target": {"id": "8", "username": "carol", "acct": "carol@new.example"}
		}`), &n))

		out, err := pleroma.ConvertNotification(&n)
		require.NoError(t, err)
		require.Equal(t, entity.NotificationMove, out.Type)
		require.Equal(t, "carol@new.example", out.Target.Acct)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := pleroma.ConvertNotification(&pleroma.Notification{Type: "pleroma:chat_mention"})
		require.True(t, megalodon.IsUnknownNotificationType(err))

		var unknown *megalodon.UnknownNotificationTypeError
		require.ErrorAs(t, err, &unknown)
		require.Equal(t, megalodon.Pleroma, unknown.Platform)
	})

	t.Run("filters unknown", func(t *testing.T) {
		t.Parallel()

		out := pleroma.ConvertNotifications([]pleroma.Notification{
			{ID: "1", Type: "follow"},
			{ID: "2", Type: "pleroma:report"},
			{ID: "3", Type: "poll"},
		})
		require.Len(t, out, 2)
		require.Equal(t, "1", out[0].ID)
		require.Equal(t, entity.NotificationPollExpired, out[1].Type)
	})
}

func TestNotificationTypes_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, native := range pleroma.NotificationTypes() {
		t.Run(native, func(t *testing.T) {
			t.Parallel()

			unified, err := pleroma.DecodeNotificationType(native)
			require.NoError(t, err)

			encoded, err := pleroma.EncodeNotificationType(unified)
			require.NoError(t, err)
			require.Equal(t, native, encoded)
		})
	}

	_, err := pleroma.EncodeNotificationType(entity.NotificationPollVote)
	require.True(t, megalodon.IsUnknownNotificationType(err))
}

func TestVisibility(t *testing.T) {
	t.Parallel()

	native, err := pleroma.EncodeVisibility(entity.VisibilityLocal)
	require.NoError(t, err)
	require.Equal(t, "local", native)
	require.Equal(t, entity.VisibilityLocal, pleroma.DecodeVisibility(native))
	require.Equal(t, entity.VisibilityPrivate, pleroma.DecodeVisibility("list"))
	require.Equal(t, entity.VisibilityUnlisted, pleroma.DecodeVisibility("unlisted"))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	ev, err := pleroma.Translate(streaming.EventUpdate, json.RawMessage(statusJSON))
	require.NoError(t, err)
	require.Equal(t, streaming.EventUpdate, ev.Kind)
	require.Len(t, ev.Status.EmojiReactions, 2)

	_, err = pleroma.Translate(streaming.EventNotification, json.RawMessage(`{"id":"1","type":"pleroma:chat_mention"}`))
	require.True(t, megalodon.IsUnknownNotificationType(err))

	_, err = pleroma.Translate(streaming.EventUpdate, json.RawMessage(`[]`))
	require.Error(t, err)
}
