package source

import (
	"context"
	"fmt"
	"log/slog"

	"megalodon/internal/config"
	"megalodon/pkg/fediverse"
	"megalodon/pkg/megalodon"
	"megalodon/pkg/streaming"
)

// Source owns the client and the stream selected by the configuration.
type Source struct {
	Logger *slog.Logger
	Config *config.Config

	client fediverse.Client
	stream streaming.Stream
}

func (s *Source) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "source.Source")

	client, err := Connect(ctx, s.Config, s.Logger)
	if err != nil {
		return err
	}
	s.client = client

	param := s.Config.Tag
	if s.Config.Stream == fediverse.StreamList {
		param = s.Config.List
	}

	s.stream, err = fediverse.OpenStream(ctx, client, s.Config.Stream, param)
	if err != nil {
		_ = client.Close()
		return err
	}

	s.Logger.Info("Stream ready", "sns", client.Platform(), "stream", s.Config.Stream)
	return nil
}

func (s *Source) Shutdown(context.Context) error {
	s.stream.Stop()
	return s.client.Close()
}

func (s *Source) HealthCheck(context.Context) error {
	if state := s.stream.State(); state == streaming.StateReconnecting {
		return fmt.Errorf("%s stream is %s", s.client.Platform(), state)
	}
	return nil
}

func (s *Source) Client() fediverse.Client {
	return s.client
}

func (s *Source) Platform() megalodon.SNS {
	return s.client.Platform()
}

func (s *Source) State() streaming.State {
	return s.stream.State()
}

// Events starts the stream and delivers the selected kinds until ctx ends. Every call registers
// another set of handlers, so each consumer calls it once.
func (s *Source) Events(ctx context.Context, kinds ...streaming.EventKind) (<-chan streaming.Event, error) {
	return streaming.Channel(ctx, s.stream, kinds...)
}

// Connect builds the client for the configured server, detecting the software when the
// configuration does not name it.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fediverse.Client, error) {
	proxy, err := megalodon.ProxyFromEnv()
	if err != nil {
		return nil, err
	}

	clientCfg := fediverse.Config{
		BaseURL:        cfg.ServerURL,
		AccessToken:    cfg.AccessToken,
		UserAgent:      cfg.UserAgent,
		Proxy:          proxy,
		UseEventStream: cfg.EventStream,
		Logger:         logger,
	}

	var sns megalodon.SNS
	if cfg.SNS != "" {
		sns, err = megalodon.ParseSNS(cfg.SNS)
	} else {
		sns, err = fediverse.Detect(ctx, clientCfg)
		if err == nil {
			logger.Info("Detected server software", "sns", sns, "server", cfg.ServerURL)
		}
	}
	if err != nil {
		return nil, err
	}

	return fediverse.New(sns, clientCfg)
}
