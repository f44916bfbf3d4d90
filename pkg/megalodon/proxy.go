package megalodon

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"h12.io/socks"
)

const (
	ProxyHTTP    = "http"
	ProxyHTTPS   = "https"
	ProxySOCKS4  = "socks4"
	ProxySOCKS4A = "socks4a"
	ProxySOCKS5  = "socks5"
	ProxySOCKS5H = "socks5h"
)

// ProxyConfig is shared by the REST and streaming transports.
type ProxyConfig struct {
	Protocol string `envconfig:"PROTOCOL" default:"http"`
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
}

// ProxyFromEnv reads MEGALODON_PROXY_* variables. It returns nil when no host is configured.
func ProxyFromEnv() (*ProxyConfig, error) {
	var cfg ProxyConfig
	if err := envconfig.Process("megalodon_proxy", &cfg); err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		return nil, nil
	}
	if _, err := cfg.URL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// URL renders the proxy address.
func (p *ProxyConfig) URL() (*url.URL, error) {
	switch p.Protocol {
	case ProxyHTTP, ProxyHTTPS, ProxySOCKS4, ProxySOCKS4A, ProxySOCKS5, ProxySOCKS5H:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxyProtocol, p.Protocol)
	}
	if p.Host == "" {
		return nil, &ArgumentError{Argument: "proxy host", Reason: "is required"}
	}

	u := &url.URL{
		Scheme: p.Protocol,
		Host:   p.Host,
	}
	if p.Port != 0 {
		u.Host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	switch {
	case p.Password != "":
		u.User = url.UserPassword(p.Username, p.Password)
	case p.Username != "":
		u.User = url.User(p.Username)
	}
	return u, nil
}

// SOCKS4 reports whether the proxy speaks SOCKS4 or SOCKS4a. net/http and x/net/proxy only dial
// HTTP CONNECT and SOCKS5, so these proxies are reached through DialContext.
func (p *ProxyConfig) SOCKS4() bool {
	return p.Protocol == ProxySOCKS4 || p.Protocol == ProxySOCKS4A
}

// DialContext returns a dial function that tunnels through a SOCKS4 or SOCKS4a proxy.
func (p *ProxyConfig) DialContext() (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	if !p.SOCKS4() {
		return nil, fmt.Errorf("%w: %s has no socks4 dialer", ErrUnsupportedProxyProtocol, p.Protocol)
	}
	u, err := p.URL()
	if err != nil {
		return nil, err
	}
	dial := socks.Dial(u.String())

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		type result struct {
			conn net.Conn
			err  error
		}
		// The socks dialer takes no context; a late connection is closed once it arrives.
		ch := make(chan result, 1)
		go func() {
			conn, err := dial(network, addr)
			ch <- result{conn: conn, err: err}
		}()

		select {
		case r := <-ch:
			return r.conn, r.err
		case <-ctx.Done():
			go func() {
				if r := <-ch; r.conn != nil {
					_ = r.conn.Close()
				}
			}()
			return nil, ctx.Err()
		}
	}, nil
}
