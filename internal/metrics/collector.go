package metrics

import (
	"context"
	"log/slog"
	"time"

	"megalodon/internal/core"
	"megalodon/pkg/streaming"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const collectInterval = 15 * time.Second

var (
	streamUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "megalodon_stream_up",
		Help: "Whether the followed stream is open.",
	}, []string{"platform"})
)

// Collector samples the stream state.
type Collector struct {
	Logger *slog.Logger
	Source core.Source
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(collectInterval)
	defer ticker.Stop()

	for {
		c.collect()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Collector) collect() {
	state := c.Source.State()
	up := 0.0
	if state == streaming.StateOpen {
		up = 1
	}

	streamUp.WithLabelValues(string(c.Source.Platform())).Set(up)
	c.Logger.Debug("Collected metrics", "state", state)
}
