package mastodon_test

import (
	"testing"

	"megalodon/pkg/entity"
	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"

	"github.com/stretchr/testify/require"
)

func TestNotificationTypes(t *testing.T) {
	t.Parallel()

	t.Run("every native token decodes", func(t *testing.T) {
		t.Parallel()

		for _, native := range mastodon.NotificationTypes() {
			unified, err := mastodon.DecodeNotificationType(native)
			require.NoError(t, err, native)

			encoded, err := mastodon.EncodeNotificationType(unified)
			require.NoError(t, err)
			require.Equal(t, native, encoded)
		}
	})

	t.Run("round trip over supported unified types", func(t *testing.T) {
		t.Parallel()

		for _, unified := range entity.NotificationTypes() {
			native, err := mastodon.EncodeNotificationType(unified)
			if err != nil {
				require.True(t, megalodon.IsUnknownNotificationType(err), unified)
				continue
			}
			decoded, err := mastodon.DecodeNotificationType(native)
			require.NoError(t, err)
			require.Equal(t, unified, decoded)
		}
	})

	t.Run("poll means poll_expired", func(t *testing.T) {
		t.Parallel()

		unified, err := mastodon.DecodeNotificationType("poll")
		require.NoError(t, err)
		require.Equal(t, entity.NotificationPollExpired, unified)
	})

	t.Run("unknown tokens", func(t *testing.T) {
		t.Parallel()

		for _, native := range []string{"admin.sign_up", "admin.report", "poll_expired", ""} {
			_, err := mastodon.DecodeNotificationType(native)
			require.True(t, megalodon.IsUnknownNotificationType(err), native)
		}
	})

	t.Run("unified types without a native token", func(t *testing.T) {
		t.Parallel()

		for _, unified := range []entity.NotificationType{entity.NotificationEmojiReaction, entity.NotificationPollVote, entity.NotificationMove} {
			_, err := mastodon.EncodeNotificationType(unified)
			require.True(t, megalodon.IsUnknownNotificationType(err), unified)
		}
	})
}
