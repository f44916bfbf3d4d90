package misskey_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/misskey"
	"megalodon/pkg/streaming"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, mux *http.ServeMux, endpoint string, respond func(params map[string]any) any) {
	t.Helper()

	mux.HandleFunc("POST /api/"+endpoint, func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		require.Equal(t, "token", params["i"])

		result := respond(params)
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})
}

func newClient(t *testing.T, mux *http.ServeMux) *misskey.Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := misskey.New(misskey.Config{BaseURL: srv.URL, AccessToken: "token"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_REST(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	handle(t, mux, "i", func(map[string]any) any {
		return misskey.UserDetail{User: user("me", "me", nil), NotesCount: 3}
	})
	handle(t, mux, "notes/show", func(params map[string]any) any {
		return note(params["noteId"].(string), "hello")
	})
	handle(t, mux, "notes/timeline", func(params map[string]any) any {
		require.Equal(t, "n9", params["untilId"])
		require.EqualValues(t, 2, params["limit"])
		return []*misskey.Note{note("n8", "a"), note("n7", "b")}
	})
	handle(t, mux, "i/notifications", func(map[string]any) any {
		u := user("2", "bob", nil)
		return []misskey.Notification{
			{ID: "1", Type: "reply", User: &u, Note: note("n1", "re")},
			{ID: "2", Type: "app"},
		}
	})
	handle(t, mux, "notes/reactions/create", func(params map[string]any) any {
		require.Equal(t, "👍", params["reaction"])
		return nil
	})
	handle(t, mux, "notes/reactions", func(map[string]any) any {
		return []misskey.NoteReaction{
			{ID: "r1", Type: "👍", User: user("me", "me", nil)},
			{ID: "r2", Type: "👍", User: user("2", "bob", nil)},
		}
	})
	handle(t, mux, "meta", func(map[string]any) any {
		return misskey.Meta{Version: "2024.3.1", URI: "https://misskey.example"}
	})
	handle(t, mux, "stats", func(map[string]any) any {
		return misskey.Stats{OriginalUsersCount: 4}
	})
	c := newClient(t, mux)

	require.Equal(t, megalodon.Misskey, c.Platform())

	t.Run("credentials", func(t *testing.T) {
		t.Parallel()

		a, err := c.VerifyAccountCredentials(t.Context())
		require.NoError(t, err)
		require.Equal(t, "me", a.ID)
		require.Equal(t, 3, a.StatusesCount)
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()

		s, err := c.GetStatus(t.Context(), "n1")
		require.NoError(t, err)
		require.Equal(t, "hello", *s.PlainContent)
	})

	t.Run("status id is required", func(t *testing.T) {
		t.Parallel()

		_, err := c.GetStatus(t.Context(), "")
		require.True(t, megalodon.IsArgumentError(err))
	})

	t.Run("home timeline", func(t *testing.T) {
		t.Parallel()

		statuses, err := c.GetHomeTimeline(t.Context(), megalodon.Page{Limit: 2, MaxID: "n9"})
		require.NoError(t, err)
		require.Len(t, statuses, 2)
	})

	t.Run("notifications", func(t *testing.T) {
		t.Parallel()

		ns, err := c.GetNotifications(t.Context(), megalodon.Page{})
		require.NoError(t, err)
		require.Len(t, ns, 1)
		require.Equal(t, entity.NotificationMention, ns[0].Type)
	})

	t.Run("create reaction", func(t *testing.T) {
		t.Parallel()

		s, err := c.CreateEmojiReaction(t.Context(), "n1", "👍")
		require.NoError(t, err)
		require.Equal(t, "n1", s.ID)
	})

	t.Run("reactions", func(t *testing.T) {
		t.Parallel()

		reactions, err := c.GetEmojiReactions(t.Context(), "n1")
		require.NoError(t, err)
		require.Len(t, reactions, 1)
		require.Equal(t, 2, reactions[0].Count)
		require.True(t, reactions[0].Me)
	})

	t.Run("instance", func(t *testing.T) {
		t.Parallel()

		i, err := c.GetInstance(t.Context())
		require.NoError(t, err)
		require.Equal(t, "2024.3.1", i.Version)
		require.Equal(t, 4, i.Stats.UserCount)
	})

	t.Run("stream arguments", func(t *testing.T) {
		t.Parallel()

		_, err := c.TagStream(t.Context(), "")
		require.True(t, megalodon.IsArgumentError(err))

		_, err = c.ListStream(t.Context(), "")
		require.True(t, megalodon.IsArgumentError(err))
	})
}

func TestClient_ResponseError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/notes/show", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"No such note.","code":"NO_SUCH_NOTE"}}`))
	})
	c := newClient(t, mux)

	_, err := c.GetStatus(t.Context(), "missing")

	var respErr *megalodon.ResponseError
	require.ErrorAs(t, err, &respErr)
	require.Equal(t, "No such note.", respErr.Message)
}

func TestClient_UserStream(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	connects := make(chan map[string]any, 2)

	mux := http.NewServeMux()
	handle(t, mux, "i", func(map[string]any) any {
		return misskey.UserDetail{User: user("me", "me", nil)}
	})
	mux.HandleFunc("GET /streaming", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token", r.URL.Query().Get("i"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ids := map[string]string{}
		for len(ids) < 2 {
			var frame struct {
				Type string         `json:"type"`
				Body map[string]any `json:"body"`
			}
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			connects <- frame.Body
			ids[frame.Body["channel"].(string)] = frame.Body["id"].(string)
		}

		_ = conn.WriteJSON(map[string]any{
			"type": "channel",
			"body": map[string]any{"id": ids["homeTimeline"], "type": "note", "body": note("n1", "streamed")},
		})
		_ = conn.WriteJSON(map[string]any{
			"type": "channel",
			"body": map[string]any{"id": ids["main"], "type": "notification", "body": map[string]any{
				"id": "x1", "type": "follow", "createdAt": "2024-03-01T12:00:00Z", "user": user("2", "bob", nil),
			}},
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	c := newClient(t, mux)

	s, err := c.UserStream(t.Context())
	require.NoError(t, err)

	events := make(chan streaming.Event, 4)
	require.NoError(t, s.On(streaming.EventUpdate, func(ev streaming.Event) { events <- ev }))
	require.NoError(t, s.On(streaming.EventNotification, func(ev streaming.Event) { events <- ev }))

	s.Start()
	defer s.Stop()

	channels := map[string]bool{}
	for range 2 {
		select {
		case body := <-connects:
			channels[body["channel"].(string)] = true
		case <-time.After(5 * time.Second):
			require.FailNow(t, "no connect frame received")
		}
	}
	require.Equal(t, map[string]bool{"main": true, "homeTimeline": true}, channels)

	for _, want := range []streaming.EventKind{streaming.EventUpdate, streaming.EventNotification} {
		select {
		case ev := <-events:
			require.Equal(t, want, ev.Kind)
		case <-time.After(5 * time.Second):
			require.FailNow(t, "no event received", want)
		}
	}
}
