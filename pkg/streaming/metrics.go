package streaming

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megalodon_stream_events_total",
		Help: "Events emitted by streaming adapters.",
	}, []string{"platform", "event"})

	reconnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megalodon_stream_reconnects_total",
		Help: "Reconnects scheduled by streaming adapters.",
	}, []string{"platform"})
)
