package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for a conversion run.
// Each Metrics owns its registry, so a process (or test) can create as many
// as it needs.
type Metrics struct {
	registry *prometheus.Registry

	LinesRead      prometheus.Counter
	RecordsEmitted prometheus.Counter
	RecordsDropped prometheus.Counter
	RunDuration    prometheus.Gauge
	LastRunSuccess prometheus.Gauge
}

// NewMetrics creates and registers all converter metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmeta",
			Name:      "lines_read_total",
			Help:      "Total input lines read.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmeta",
			Name:      "records_emitted_total",
			Help:      "Total spot blocks written to the metafile.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmeta",
			Name:      "records_dropped_total",
			Help:      "Total input lines dropped for having fewer than three fields.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spotmeta",
			Name:      "run_duration_seconds",
			Help:      "Duration of the last conversion run.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spotmeta",
			Name:      "last_run_success",
			Help:      "1 when the last conversion run completed, 0 otherwise.",
		}),
	}

	m.registry.MustRegister(
		m.LinesRead,
		m.RecordsEmitted,
		m.RecordsDropped,
		m.RunDuration,
		m.LastRunSuccess,
	)

	return m
}

// Gatherer exposes the registry, e.g. for testutil or an HTTP handler.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text format, for the node exporter textfile collector. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
