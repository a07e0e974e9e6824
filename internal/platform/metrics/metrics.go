package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for stage counters.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds Prometheus counters and histograms for the tagger service.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    prometheus.Counter
	errorsTotal      prometheus.Counter
	inFlight         prometheus.Gauge
	stageTotal       *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	tagsTotal        prometheus.Counter
}

// New creates and registers Prometheus metrics for the tagger.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagger_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagger_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tagger_requests_in_flight",
		Help: "Number of HTTP requests currently being served",
	})
	stageTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagger_stage_total",
		Help: "Pipeline stage executions by stage (resolve, transcript, tags) and outcome",
	}, []string{"stage", "outcome"})
	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagger_upstream_duration_seconds",
		Help:    "Latency of calls to YouTube and the language model",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})
	tagsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagger_tags_generated_total",
		Help: "Total number of tags returned to callers",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		inFlight,
		stageTotal,
		upstreamDuration,
		tagsTotal,
	)

	return &Metrics{
		registry:         registry,
		requestsTotal:    requestsTotal,
		errorsTotal:      errorsTotal,
		inFlight:         inFlight,
		stageTotal:       stageTotal,
		upstreamDuration: upstreamDuration,
		tagsTotal:        tagsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveStage counts one execution of a pipeline stage.
func (m *Metrics) ObserveStage(stage string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
}

// ObserveUpstream records how long an external call for stage took.
func (m *Metrics) ObserveUpstream(stage string, d time.Duration) {
	m.upstreamDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddTags adds n to the generated tags counter.
func (m *Metrics) AddTags(n int) {
	m.tagsTotal.Add(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
