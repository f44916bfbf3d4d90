package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"megalodon/internal/config"
	"megalodon/internal/core"
	"megalodon/internal/metrics"
	"megalodon/internal/source"
	"megalodon/pkg/megalodon"

	"github.com/stretchr/testify/require"
	"github.com/zhulik/pal"
)

func TestNewPal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerURL:   srv.URL,
		SNS:         "mastodon",
		Timeout:     5 * time.Second,
		Stream:      "public",
		EventStream: true,
		MetricsAddr: "127.0.0.1:0",
	}

	p := newPal(cfg, append(sourceServices(), pal.Provide[core.Printer, printer]())...)
	require.NoError(t, p.Init(t.Context()))

	src, err := pal.Invoke[core.Source](t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, megalodon.Mastodon, src.Platform())
	t.Cleanup(func() { _ = src.(*source.Source).Shutdown(t.Context()) })

	pr, err := pal.Invoke[core.Printer](t.Context(), p)
	require.NoError(t, err)
	require.Same(t, src, pr.(*printer).Source)
	require.NotNil(t, pr.(*printer).Logger)

	ms, err := pal.Invoke[core.MetricsServer](t.Context(), p)
	require.NoError(t, err)
	server := ms.(*metrics.HTTPServer)
	require.Same(t, cfg, server.Config)

	done := make(chan error, 1)
	go func() { done <- server.Run(t.Context()) }()

	resp, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Shutdown(t.Context()))
	require.NoError(t, <-done)
}

func TestNewPal_invalidTimeout(t *testing.T) {
	t.Parallel()

	p := newPal(&config.Config{}, sourceServices()...)
	require.Error(t, p.Init(t.Context()))
}
