// Package metrics exposes Prometheus instrumentation for the collector
// and aggregator processes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsSent counts records successfully written to the transport
	RecordsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "collector",
		Name:      "records_sent_total",
		Help:      "Records successfully sent over the transport",
	})

	// RecordsDropped counts records evicted from the send buffer
	RecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "collector",
		Name:      "records_dropped_total",
		Help:      "Records dropped because the send buffer was full",
	})

	// Reconnects counts transport reconnection attempts that succeeded
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "collector",
		Name:      "reconnects_total",
		Help:      "Successful transport reconnections",
	})

	// ProbeErrors counts probe runs that returned an error
	ProbeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "collector",
		Name:      "probe_errors_total",
		Help:      "Probe runs that returned an error",
	}, []string{"probe"})

	// MessagesReceived counts payloads accepted by the ingestion endpoint
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "aggregator",
		Name:      "messages_received_total",
		Help:      "Payloads accepted by the ingestion endpoint",
	}, []string{"type"})

	// MessagesRejected counts payloads rejected before normalization
	MessagesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "aggregator",
		Name:      "messages_rejected_total",
		Help:      "Payloads rejected as malformed",
	})

	// NormalizationFailures counts payloads persisted raw but not normalized
	NormalizationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "telemetry",
		Subsystem: "aggregator",
		Name:      "normalization_failures_total",
		Help:      "Payloads stored raw whose normalization failed",
	})
)
