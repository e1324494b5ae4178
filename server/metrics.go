package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds prometheus collectors for the feed and metadata operations.
// Each instance owns its registry, so servers made in tests don't collide.
type Metrics struct {
	registry *prometheus.Registry

	feedRequests     *prometheus.CounterVec
	generations      *prometheus.CounterVec
	generateDuration prometheus.Histogram
}

// NewMetrics makes collectors registered in a fresh registry, with go and process collectors included
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		feedRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newstag_feed_requests_total",
				Help: "Total number of feed requests, labeled by ingestion path (cold, warm, error).",
			},
			[]string{"path"},
		),
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newstag_generations_total",
				Help: "Total number of generated fields, labeled by field and result (ok, degraded).",
			},
			[]string{"field", "result"},
		),
		generateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "newstag_generate_duration_seconds",
				Help:    "Histogram of metadata generation latencies.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
}

// Handler returns http handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) feedServed(path string) {
	m.feedRequests.WithLabelValues(path).Inc()
}

func (m *Metrics) fieldGenerated(field string, degraded bool) {
	result := "ok"
	if degraded {
		result = "degraded"
	}
	m.generations.WithLabelValues(field, result).Inc()
}
