package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SkillTracker/internal/ports"
)

// Metrics owns a private registry so several apps (or tests) can coexist
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ScrapeDuration   *prometheus.HistogramVec
	CoercionFallback *prometheus.CounterVec
}

var _ ports.FallbackRecorder = (*Metrics)(nil)

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		ScrapeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_scrape_duration_seconds",
				Help:    "Time spent fetching and extracting a profile page",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"outcome"},
		),
		CoercionFallback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_stat_coercion_fallbacks_total",
				Help: "Statistics kept as raw text because they did not parse as integers",
			},
			[]string{"label"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.ScrapeDuration,
		m.CoercionFallback,
	)
	return m
}

// RecordFallback counts a statistic that fell back to raw text.
func (m *Metrics) RecordFallback(label string) {
	m.CoercionFallback.WithLabelValues(label).Inc()
}

// ObserveScrape records how long a fetch+extract took; outcome is "ok" or an error class.
func (m *Metrics) ObserveScrape(outcome string, seconds float64) {
	m.ScrapeDuration.WithLabelValues(outcome).Observe(seconds)
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
