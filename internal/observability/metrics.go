package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scenario prediction service.
type Metrics struct {
	// Engine metrics.
	ScenariosComputed prometheus.Counter
	ScenarioCache     *prometheus.CounterVec // labels: result={hit,miss}
	ComputeDuration   prometheus.Histogram

	// Advisory channel metrics.
	AdvisoryRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	AdvisoryDuration prometheus.Histogram
	AdvisoryEnabled  prometheus.Gauge

	// API and sink metrics.
	HTTPRequests      *prometheus.CounterVec // labels: method, status
	PredictionsStored prometheus.Counter
	EventsPublished   *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScenariosComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "scenarios_computed_total",
			Help:      "Total scenario results computed (cache misses).",
		}),
		ScenarioCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "scenario_cache_total",
			Help:      "Scenario cache lookups by result.",
		}, []string{"result"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water_scenario",
			Name:      "compute_duration_seconds",
			Help:      "Duration of a complete scenario computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		AdvisoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "advisory_requests_total",
			Help:      "Advisory API requests by outcome.",
		}, []string{"outcome"}),
		AdvisoryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water_scenario",
			Name:      "advisory_request_duration_seconds",
			Help:      "Gemini API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		AdvisoryEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "water_scenario",
			Name:      "advisory_enabled",
			Help:      "1 when the advisory channel is enabled, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by method and status code.",
		}, []string{"method", "status"}),
		PredictionsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "predictions_stored_total",
			Help:      "Prediction records written to Postgres.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_scenario",
			Name:      "events_published_total",
			Help:      "Scenario result events published to Kafka by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.ScenariosComputed,
		m.ScenarioCache,
		m.ComputeDuration,
		m.AdvisoryRequests,
		m.AdvisoryDuration,
		m.AdvisoryEnabled,
		m.HTTPRequests,
		m.PredictionsStored,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScenariosComputed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_scenario", Name: "scenarios_computed_total"}),
		ScenarioCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "water_scenario", Name: "scenario_cache_total"}, []string{"result"}),
		ComputeDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "water_scenario", Name: "compute_duration_seconds"}),
		AdvisoryRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "water_scenario", Name: "advisory_requests_total"}, []string{"outcome"}),
		AdvisoryDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "water_scenario", Name: "advisory_request_duration_seconds"}),
		AdvisoryEnabled:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "water_scenario", Name: "advisory_enabled"}),
		HTTPRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "water_scenario", Name: "http_requests_total"}, []string{"method", "status"}),
		PredictionsStored: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_scenario", Name: "predictions_stored_total"}),
		EventsPublished:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "water_scenario", Name: "events_published_total"}, []string{"outcome"}),
	}
}
