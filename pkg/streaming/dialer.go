package streaming

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"megalodon/pkg/megalodon"

	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
)

// WebsocketDialer dials with gorilla/websocket, optionally through an HTTP CONNECT or SOCKS proxy.
type WebsocketDialer struct {
	dialer *websocket.Dialer
}

func NewDialer(p *megalodon.ProxyConfig) (*WebsocketDialer, error) {
	d := *websocket.DefaultDialer
	if p == nil {
		return &WebsocketDialer{dialer: &d}, nil
	}

	proxyURL, err := p.URL()
	if err != nil {
		return nil, err
	}

	switch proxyURL.Scheme {
	case megalodon.ProxySOCKS4, megalodon.ProxySOCKS4A:
		dial, err := p.DialContext()
		if err != nil {
			return nil, fmt.Errorf("streaming: socks4 proxy: %w", err)
		}
		d.Proxy = nil
		d.NetDialContext = dial
	case megalodon.ProxySOCKS5, megalodon.ProxySOCKS5H:
		socks, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("streaming: socks proxy: %w", err)
		}
		contextDialer, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("%w: %s", megalodon.ErrUnsupportedProxyProtocol, proxyURL.Scheme)
		}
		d.Proxy = nil
		d.NetDialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return contextDialer.DialContext(ctx, network, addr)
		}
	default:
		d.Proxy = http.ProxyURL(proxyURL)
	}

	return &WebsocketDialer{dialer: &d}, nil
}

func (d *WebsocketDialer) Dial(ctx context.Context, rawURL string, header http.Header) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, rawURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %w", err, &megalodon.ResponseError{StatusCode: resp.StatusCode})
		}
		return nil, err
	}
	return conn, nil
}

var secretParams = []string{"access_token", "i"}

// redact hides credentials carried in the query string.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, key := range secretParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// WebsocketOrigin swaps an http(s) scheme for ws(s).
func WebsocketOrigin(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
