// Package metrics defines the Prometheus collectors for an alignment run and
// exposes them for scraping or as a node-exporter textfile.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors on a private registry, so several runs in one
// process (tests, the tuner) do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	PairsAligned prometheus.Counter
	Batches      prometheus.Counter
	BatchLatency prometheus.Histogram
	BatchPairs   prometheus.Histogram
	Records      prometheus.Counter
	Flushes      prometheus.Counter
	BytesWritten prometheus.Counter
	Workers      prometheus.Gauge
	RunSeconds   prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PairsAligned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqalign_pairs_aligned_total",
			Help: "Adjacent record pairs aligned.",
		}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqalign_batches_total",
			Help: "Batches dispatched to the executor.",
		}),
		BatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqalign_batch_duration_seconds",
			Help:    "Wall time from dispatch to the completion barrier.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		BatchPairs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqalign_batch_pairs",
			Help:    "Pairs per dispatched batch.",
			Buckets: prometheus.ExponentialBuckets(1, 8, 7),
		}),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqalign_records_read_total",
			Help: "Input records parsed.",
		}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqalign_output_flushes_total",
			Help: "Output buffer flushes.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seqalign_output_bytes_total",
			Help: "Bytes written to the output sink.",
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seqalign_workers",
			Help: "Alignment workers in the pool.",
		}),
		RunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seqalign_run_seconds",
			Help: "Duration of the last completed run.",
		}),
	}
	m.Registry.MustRegister(
		m.PairsAligned,
		m.Batches,
		m.BatchLatency,
		m.BatchPairs,
		m.Records,
		m.Flushes,
		m.BytesWritten,
		m.Workers,
		m.RunSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// BatchDone records one completed batch.
func (m *Metrics) BatchDone(pairs int, elapsed time.Duration) {
	m.Batches.Inc()
	m.PairsAligned.Add(float64(pairs))
	m.BatchPairs.Observe(float64(pairs))
	m.BatchLatency.Observe(elapsed.Seconds())
}

// Flushed records one output flush of n bytes.
func (m *Metrics) Flushed(n int) {
	m.Flushes.Inc()
	m.BytesWritten.Add(float64(n))
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// WriteTextfile dumps the registry in text exposition format, atomically
// replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
