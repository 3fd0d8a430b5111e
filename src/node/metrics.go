package node

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "murmur"

// Metrics are the prometheus collectors of a node. Each node has its own
// registry so that several nodes can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	received      prometheus.Counter
	sent          prometheus.Counter
	receiveErrors prometheus.Counter
	decodeErrors  prometheus.Counter
}

func newMetrics(queue *Queue) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_received_total",
			Help:      "Envelopes consumed by the event loop.",
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_sent_total",
			Help:      "Envelopes written to the transport.",
		}),
		receiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "receive_errors_total",
			Help:      "Envelopes the actor failed to handle.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_errors_total",
			Help:      "Transport lines that could not be decoded.",
		}),
	}

	queueLength := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "queue_length",
		Help:      "Envelopes waiting for the event loop.",
	}, func() float64 {
		return float64(queue.Len())
	})

	m.Registry.MustRegister(m.received, m.sent, m.receiveErrors, m.decodeErrors, queueLength)

	return m
}

// values returns the current value of every counter and gauge, keyed by
// metric name without the namespace.
func (m *Metrics) values() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	res := make(map[string]float64, len(families))
	for _, f := range families {
		name := f.GetName()
		if len(name) > len(metricsNamespace)+1 {
			name = name[len(metricsNamespace)+1:]
		}
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				res[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				res[name] = metric.GetGauge().GetValue()
			}
		}
	}

	return res, nil
}
