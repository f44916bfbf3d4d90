package cmd

import (
	"context"
	"log/slog"

	"megalodon/internal/source"

	"github.com/urfave/cli/v3"
)

var detectCmd = &cli.Command{
	Name:  "detect",
	Usage: "Detect the server software and print the instance information",
	Action: func(ctx context.Context, c *cli.Command) error {
		cfg, err := parseConfig(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		logger := slog.Default()

		client, err := source.Connect(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		instance, err := client.GetInstance(ctx)
		if err != nil {
			return err
		}

		logger.Info("Instance",
			"sns", client.Platform(),
			"uri", instance.URI,
			"title", instance.Title,
			"version", instance.Version,
			"streaming_url", instance.StreamingURL,
			"users", instance.Stats.UserCount,
			"statuses", instance.Stats.StatusCount,
			"domains", instance.Stats.DomainCount,
		)
		return nil
	},
}
