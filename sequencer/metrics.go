package sequencer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsSequenced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sequencer_events_sequenced_total",
	Help: "Events written to the sequence log, by type",
}, []string{"type"})

var pollBatches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_poll_batches_total",
	Help: "Non-empty batches read from the sequence log",
})

var pollErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_poll_errors_total",
	Help: "Failed polls of the sequence log",
})

var decodeErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_decode_errors_total",
	Help: "Log rows skipped because they could not be decoded",
})

var eventsEmitted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_events_emitted_total",
	Help: "Events emitted to live subscribers",
})

var lastSeenSeq = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "sequencer_last_seen_seq",
	Help: "Highest seq emitted by the poll loop",
})

var subscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "sequencer_subscribers_active",
	Help: "Number of live subscriptions",
})

var slowConsumers = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_slow_consumers_total",
	Help: "Subscriptions closed because their buffer was full",
})
