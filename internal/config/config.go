package config

import "time"

type Config struct {
	LogLevel string `flag:"log-level"`

	ServerURL   string        `flag:"server-url"`
	AccessToken string        `flag:"access-token"`
	SNS         string        `flag:"sns"`
	UserAgent   string        `flag:"user-agent"`
	Timeout     time.Duration `flag:"timeout"`

	Stream      string `flag:"stream"`
	Tag         string `flag:"tag"`
	List        string `flag:"list"`
	EventStream bool   `flag:"event-stream"`

	MetricsAddr string `flag:"metrics-addr"`

	NATSURL  string `flag:"nats-url"`
	NATSInit bool   `flag:"nats-init"`
}
