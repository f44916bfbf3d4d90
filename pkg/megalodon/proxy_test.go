package megalodon_test

import (
	"context"
	"io"
	"net"
	"testing"

	"megalodon/internal/socks4test"
	"megalodon/pkg/megalodon"

	"github.com/stretchr/testify/require"
)

func TestProxyConfig_URL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		cfg      megalodon.ProxyConfig
		expected string
		err      error
	}{
		{
			name:     "http with port",
			cfg:      megalodon.ProxyConfig{Protocol: "http", Host: "proxy.local", Port: 3128},
			expected: "http://proxy.local:3128",
		},
		{
			name:     "socks5h with credentials",
			cfg:      megalodon.ProxyConfig{Protocol: "socks5h", Host: "10.0.0.1", Port: 1080, Username: "u", Password: "p"},
			expected: "socks5h://u:p@10.0.0.1:1080",
		},
		{
			name:     "socks4",
			cfg:      megalodon.ProxyConfig{Protocol: "socks4", Host: "10.0.0.1", Port: 1080},
			expected: "socks4://10.0.0.1:1080",
		},
		{
			name:     "socks4a with user id",
			cfg:      megalodon.ProxyConfig{Protocol: "socks4a", Host: "proxy.local", Port: 1080, Username: "u"},
			expected: "socks4a://u@proxy.local:1080",
		},
		{
			name: "unknown protocol",
			cfg:  megalodon.ProxyConfig{Protocol: "ftp", Host: "10.0.0.1"},
			err:  megalodon.ErrUnsupportedProxyProtocol,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			u, err := tc.cfg.URL()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, u.String())
		})
	}
}

func TestProxyFromEnv(t *testing.T) {
	t.Setenv("MEGALODON_PROXY_HOST", "proxy.local")
	t.Setenv("MEGALODON_PROXY_PORT", "8080")
	t.Setenv("MEGALODON_PROXY_PROTOCOL", "socks5")

	cfg, err := megalodon.ProxyFromEnv()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "socks5", cfg.Protocol)
	require.Equal(t, 8080, cfg.Port)
}

func echoServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = io.Copy(conn, conn)
			}()
		}
	}()
	return ln.Addr().String()
}

func TestProxyConfig_DialContext(t *testing.T) {
	t.Parallel()

	for _, protocol := range []string{megalodon.ProxySOCKS4, megalodon.ProxySOCKS4A} {
		t.Run(protocol, func(t *testing.T) {
			t.Parallel()

			proxy := socks4test.NewServer(t)
			target := echoServer(t)

			cfg := &megalodon.ProxyConfig{Protocol: protocol, Host: proxy.Host(), Port: proxy.Port()}
			require.True(t, cfg.SOCKS4())

			dial, err := cfg.DialContext()
			require.NoError(t, err)

			conn, err := dial(t.Context(), "tcp", target)
			require.NoError(t, err)
			defer conn.Close()

			_, err = conn.Write([]byte("ping"))
			require.NoError(t, err)
			buf := make([]byte, 4)
			_, err = io.ReadFull(conn, buf)
			require.NoError(t, err)
			require.Equal(t, "ping", string(buf))

			require.Equal(t, []string{target}, proxy.Targets())
		})
	}

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		proxy := socks4test.NewServer(t)
		cfg := &megalodon.ProxyConfig{Protocol: megalodon.ProxySOCKS4, Host: proxy.Host(), Port: proxy.Port()}
		dial, err := cfg.DialContext()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err = dial(ctx, "tcp", echoServer(t))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("not socks4", func(t *testing.T) {
		t.Parallel()

		cfg := &megalodon.ProxyConfig{Protocol: megalodon.ProxySOCKS5, Host: "proxy.local"}
		require.False(t, cfg.SOCKS4())

		_, err := cfg.DialContext()
		require.ErrorIs(t, err, megalodon.ErrUnsupportedProxyProtocol)
	})
}
