package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"megalodon/internal/cmd/flags"
	"megalodon/internal/config"
	"megalodon/pkg/clicfg"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "megalodon",
	Usage:   "Megalodon talks to Mastodon, Pleroma, Misskey and Friendica servers through one API",
	Version: VERSION,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Flags: []cli.Flag{
		flags.LogLevel,
		flags.ServerURL,
		flags.AccessToken,
		flags.SNS,
		flags.UserAgent,
		flags.Timeout,
	},
	Commands: []*cli.Command{
		detectCmd,
		streamCmd,
		forwardCmd,
	},
}

func Run() {
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parseConfig(c *cli.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if err := clicfg.ParseFlags(c, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, c *cli.Command, services ...pal.ServiceImpl) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}

	return newPal(cfg, services...).Run(ctx, syscall.SIGINT, syscall.SIGTERM)
}

func newPal(cfg *config.Config, services ...pal.ServiceImpl) *pal.Pal {
	services = append(services,
		pal.ProvideConst[*config.Config](cfg),
		pal.ProvideConst[*slog.Logger](slog.Default()),
	)

	// Init resolves the server software and the streaming endpoint over the network.
	return pal.New(services...).
		InitTimeout(cfg.Timeout).
		HealthCheckTimeout(1*time.Second).
		ShutdownTimeout(10*time.Second)
}
