package flags

import (
	"fmt"
	"slices"
	"time"

	"megalodon/pkg/fediverse"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/rest"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validStreams   = fediverse.StreamNames()
)

func oneOf(name string, allowed []string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("invalid %s: %s, allowed values are: %s", name, value, allowed)
		}
		return nil
	}
}

var LogLevel = &cli.StringFlag{
	Name:      "log-level",
	Aliases:   []string{"l"},
	Usage:     "The level of the logs",
	Value:     "info",
	Validator: oneOf("log level", validLogLevels),
	Sources:   cli.EnvVars("LOG_LEVEL"),
}

var ServerURL = &cli.StringFlag{
	Name:     "server-url",
	Aliases:  []string{"s"},
	Usage:    "The base URL of the fediverse server, e.g. https://mastodon.social",
	Required: true,
	Sources:  cli.EnvVars("MEGALODON_SERVER_URL"),
}

var AccessToken = &cli.StringFlag{
	Name:    "access-token",
	Aliases: []string{"t"},
	Usage:   "The OAuth access token",
	Sources: cli.EnvVars("MEGALODON_ACCESS_TOKEN"),
}

var SNS = &cli.StringFlag{
	Name:  "sns",
	Usage: "The server software: mastodon, pleroma, misskey or friendica. Detected via nodeinfo when empty",
	Validator: func(value string) error {
		if value == "" {
			return nil
		}
		_, err := megalodon.ParseSNS(value)
		return err
	},
	Sources: cli.EnvVars("MEGALODON_SNS"),
}

var UserAgent = &cli.StringFlag{
	Name:    "user-agent",
	Usage:   "The User-Agent sent with every request",
	Value:   rest.DefaultUserAgent,
	Sources: cli.EnvVars("MEGALODON_USER_AGENT"),
}

var Timeout = &cli.DurationFlag{
	Name:    "timeout",
	Usage:   "The timeout of one-shot requests",
	Value:   10 * time.Second,
	Sources: cli.EnvVars("MEGALODON_TIMEOUT"),
}

var Stream = &cli.StringFlag{
	Name:      "stream",
	Usage:     fmt.Sprintf("The stream to follow, one of %s", validStreams),
	Value:     "user",
	Validator: oneOf("stream", validStreams),
	Sources:   cli.EnvVars("MEGALODON_STREAM"),
}

var Tag = &cli.StringFlag{
	Name:    "tag",
	Usage:   "The hashtag to follow with --stream tag",
	Sources: cli.EnvVars("MEGALODON_TAG"),
}

var List = &cli.StringFlag{
	Name:    "list",
	Usage:   "The list id to follow with --stream list",
	Sources: cli.EnvVars("MEGALODON_LIST"),
}

var EventStream = &cli.BoolFlag{
	Name:        "event-stream",
	Usage:       "Use the HTTP event-stream API instead of websockets where supported",
	DefaultText: "false",
	Sources:     cli.EnvVars("MEGALODON_EVENT_STREAM"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "The address the metrics server listens on",
	Value:   ":8080",
	Sources: cli.EnvVars("METRICS_ADDR"),
}

var NATSURL = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server",
	Value:   libnats.DefaultURL,
	Sources: cli.EnvVars("NATS_URL"),
}

var NATSInit = &cli.BoolFlag{
	Name:        "nats-init",
	Aliases:     []string{"i"},
	Usage:       "Initialize the NATS server: create the stream and the key-value bucket",
	DefaultText: "false",
	Value:       false,
	Sources:     cli.EnvVars("NATS_INIT"),
}
