package mastodon_test

import (
	"encoding/json"
	"testing"

	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"

	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	translate := mastodon.TranslateWith(mastodon.DecodeNotificationType)

	t.Run("status update", func(t *testing.T) {
		t.Parallel()

		payload, err := json.Marshal(status("5"))
		require.NoError(t, err)

		ev, err := translate(streaming.EventStatusUpdate, payload)
		require.NoError(t, err)
		require.Equal(t, streaming.EventStatusUpdate, ev.Kind)
		require.Equal(t, "5", ev.Status.ID)
	})

	t.Run("unknown notification type", func(t *testing.T) {
		t.Parallel()

		payload, err := json.Marshal(notification("1", "admin.sign_up"))
		require.NoError(t, err)

		_, err = translate(streaming.EventNotification, payload)
		require.True(t, megalodon.IsUnknownNotificationType(err))
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		_, err := translate(streaming.EventConversation, json.RawMessage(`[]`))
		require.Error(t, err)
	})
}
