package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsFromStreamCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "repo_stream_events_received_total",
	Help: "Total number of events received from the stream",
}, []string{"remote_addr"})

var bytesFromStreamCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "repo_stream_bytes_total",
	Help: "Total bytes received from the stream",
}, []string{"remote_addr"})

var dbRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sequencer_db_retries_total",
	Help: "Number of database statements retried after a transient error",
}, []string{"op"})
