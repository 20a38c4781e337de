package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives per-case run measurements.
type Recorder interface {
	ObserveSteps(caseName string, n int)
	ObserveRun(caseName string, d time.Duration, l2Error float64)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveSteps(string, int) {}
func (NopRecorder) ObserveRun(string, time.Duration, float64) {}

// Metrics is a Recorder backed by Prometheus collectors on a private
// registry, so several instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	steps    *prometheus.CounterVec
	seconds  *prometheus.HistogramVec
	l2Error  *prometheus.GaugeVec
}

// NewMetrics creates and registers the advection collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advection_steps_total",
				Help: "Total number of engine steps taken",
			},
			[]string{"case"},
		),
		seconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advection_run_seconds",
				Help:    "Wall time of a complete run",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"case"},
		),
		l2Error: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "advection_l2_error",
				Help: "L2 error of the last run against the analytic reference",
			},
			[]string{"case"},
		),
	}
	m.registry.MustRegister(m.steps, m.seconds, m.l2Error)
	return m
}

// ObserveSteps adds n to the step counter of caseName.
func (m *Metrics) ObserveSteps(caseName string, n int) {
	m.steps.WithLabelValues(caseName).Add(float64(n))
}

// ObserveRun records the duration and final error of one run.
func (m *Metrics) ObserveRun(caseName string, d time.Duration, l2Error float64) {
	m.seconds.WithLabelValues(caseName).Observe(d.Seconds())
	m.l2Error.WithLabelValues(caseName).Set(l2Error)
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current values for the node exporter textfile
// collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
