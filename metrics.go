package mesosstream

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "mesos_stream"

// clientMetrics instruments one Client. The instruments update regardless of
// registration; passing a nil registerer keeps them local.
type clientMetrics struct {
	attempts   prometheus.Counter
	failures   prometheus.Counter
	events     prometheus.Counter
	eventBytes prometheus.Counter
	connected  prometheus.Gauge
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connect_attempts_total",
			Help:      "Connection attempts made to the leader.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connect_failures_total",
			Help:      "Connection attempts ended by failure or connect timeout.",
		}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_delivered_total",
			Help:      "Decoded events delivered to the handler.",
		}),
		eventBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "event_bytes_total",
			Help:      "Payload bytes of events delivered to the handler.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connected",
			Help:      "Whether a validated streaming connection is live (0 or 1).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.failures, m.events, m.eventBytes, m.connected)
	}
	return m
}
