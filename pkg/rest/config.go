package rest

import (
	"log/slog"
	"time"

	"megalodon/pkg/megalodon"

	"resty.dev/v3"
)

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Proxy       *megalodon.ProxyConfig
	Logger      *slog.Logger

	TransportSettings *resty.TransportSettings
}

const DefaultUserAgent = "megalodon"

var DefaultTransportSettings = &resty.TransportSettings{
	DialerTimeout:         10 * time.Second,
	DialerKeepAlive:       30 * time.Second,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 30 * time.Second,
}
