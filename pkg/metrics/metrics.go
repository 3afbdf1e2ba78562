// Package metrics exposes scan counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

// Collector records scan activity. It implements screen.Observer.
type Collector struct {
	registry *prometheus.Registry

	scansStarted   prometheus.Counter
	scansCompleted *prometheus.CounterVec
	detections     prometheus.Histogram
	scanDuration   prometheus.Histogram
	activeSessions prometheus.Gauge
}

// New creates a collector on its own registry
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "securescan"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		scansStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_started_total",
			Help:      "Total number of simulated scans started",
		}),
		scansCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_completed_total",
			Help:      "Total number of simulated scans completed, by threat level",
		}, []string{"threat_level"}),
		detections: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detections_per_scan",
			Help:      "Number of engines reporting a detection per scan",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 12, 20},
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of simulated scans",
			Buckets:   []float64{0.5, 1, 2, 4, 6, 8, 10},
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live web sessions",
		}),
	}

	c.registry.MustRegister(
		c.scansStarted,
		c.scansCompleted,
		c.detections,
		c.scanDuration,
		c.activeSessions,
	)
	return c
}

// ScanStarted implements screen.Observer
func (c *Collector) ScanStarted(screen.SelectedFile) {
	c.scansStarted.Inc()
}

// ScanFinished implements screen.Observer
func (c *Collector) ScanFinished(_ screen.SelectedFile, report *scan.Report) {
	n := scan.DetectionCount(report.Results)
	c.scansCompleted.WithLabelValues(scan.ThreatLevel(n)).Inc()
	c.detections.Observe(float64(n))
	if !report.FinishedAt.IsZero() {
		c.scanDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
}

// SetActiveSessions records the session count
func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
