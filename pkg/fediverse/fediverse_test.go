package fediverse_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"megalodon/pkg/fediverse"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"

	"github.com/stretchr/testify/require"
)

func nodeInfoServer(t *testing.T, software string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("GET /.well-known/nodeinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"links":[
			{"rel":"http://nodeinfo.diaspora.software/ns/schema/2.0","href":"` + srv.URL + `/nodeinfo/2.0"},
			{"rel":"http://nodeinfo.diaspora.software/ns/schema/2.1","href":"` + srv.URL + `/nodeinfo/2.1"},
			{"rel":"https://www.w3.org/ns/activitystreams#Application","href":"` + srv.URL + `/actor"}
		]}`))
	})
	mux.HandleFunc("GET /nodeinfo/2.1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"2.1","software":{"name":"` + software + `","version":"1.0.0"}}`))
	})
	mux.HandleFunc("GET /nodeinfo/2.0", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	return srv
}

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := map[string]megalodon.SNS{
		"mastodon":   megalodon.Mastodon,
		"akkoma":     megalodon.Pleroma,
		"Pleroma":    megalodon.Pleroma,
		"sharkey":    megalodon.Misskey,
		"misskey":    megalodon.Misskey,
		"friendica":  megalodon.Friendica,
		"gotosocial": megalodon.Mastodon,
	}

	for software, want := range cases {
		t.Run(software, func(t *testing.T) {
			t.Parallel()

			srv := nodeInfoServer(t, software)

			sns, err := fediverse.Detect(t.Context(), fediverse.Config{BaseURL: srv.URL})
			require.NoError(t, err)
			require.Equal(t, want, sns)
		})
	}
}

func TestDetect_NoNodeInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := fediverse.Detect(t.Context(), fediverse.Config{BaseURL: srv.URL})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, megalodon.StatusCode(err))
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, sns := range []megalodon.SNS{megalodon.Mastodon, megalodon.Pleroma, megalodon.Misskey, megalodon.Friendica} {
		t.Run(string(sns), func(t *testing.T) {
			t.Parallel()

			c, err := fediverse.New(sns, fediverse.Config{BaseURL: "https://example.social", AccessToken: "token"})
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			require.Equal(t, sns, c.Platform())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := fediverse.New("diaspora", fediverse.Config{BaseURL: "https://example.social"})
		require.ErrorIs(t, err, megalodon.ErrUnknownSNS)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		c, err := fediverse.New(megalodon.Mastodon, fediverse.Config{})
		require.True(t, megalodon.IsArgumentError(err))
		require.Nil(t, c)
	})
}

func TestOpenStream(t *testing.T) {
	t.Parallel()

	c, err := fediverse.New(megalodon.Mastodon, fediverse.Config{
		BaseURL:        "https://example.social",
		AccessToken:    "token",
		UseEventStream: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	for _, name := range []string{fediverse.StreamUser, fediverse.StreamPublic, fediverse.StreamLocal, fediverse.StreamDirect} {
		s, err := fediverse.OpenStream(t.Context(), c, name, "")
		require.NoError(t, err, name)
		require.Equal(t, streaming.StateIdle, s.State())
	}

	s, err := fediverse.OpenStream(t.Context(), c, fediverse.StreamTag, "golang")
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = fediverse.OpenStream(t.Context(), c, fediverse.StreamList, "")
	require.True(t, megalodon.IsArgumentError(err))

	_, err = fediverse.OpenStream(t.Context(), c, "firehose", "")
	require.True(t, megalodon.IsArgumentError(err))
}
