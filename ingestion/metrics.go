package ingestion

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "uidmap_import"

// Metrics counts ingestion work on a private registry so several runs in
// one process (tests, mostly) never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	Records       prometheus.Counter
	Batches       prometheus.Counter
	Files         prometheus.Counter
	SkippedFiles  prometheus.Counter
	Failures      prometheus.Counter
	BatchDuration prometheus.Histogram
	LastSuccess   prometheus.Gauge
}

// NewMetrics creates and registers the import metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_total",
			Help:      "Records committed to the store.",
		}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batches_total",
			Help:      "Batches committed to the store.",
		}),
		Files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_total",
			Help:      "Input files read to the end.",
		}),
		SkippedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "skipped_files_total",
			Help:      "Input files skipped because they could not be read.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Runs that ended in the failed state.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Time taken to commit one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that reached the done state.",
		}),
	}
	m.registry.MustRegister(
		m.Records,
		m.Batches,
		m.Files,
		m.SkippedFiles,
		m.Failures,
		m.BatchDuration,
		m.LastSuccess,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeBatch(records int, took time.Duration) {
	m.Records.Add(float64(records))
	m.Batches.Inc()
	m.BatchDuration.Observe(took.Seconds())
}

func (m *Metrics) observeDone(at time.Time) {
	m.LastSuccess.Set(float64(at.Unix()))
}

// WriteFile writes the metrics in the Prometheus text format, suitable for
// the node exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
