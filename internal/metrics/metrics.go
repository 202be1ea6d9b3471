// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pnaas"

// countTimeout bounds the store query behind the projects gauge.
const countTimeout = 2 * time.Second

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	projectsSubmitted prometheus.Counter
	responsesRecorded prometheus.Counter
}

// New creates the collectors on a fresh registry, along with the
// standard process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route pattern and status code",
			}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route pattern",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
		projectsSubmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "projects_submitted_total",
				Help:      "projects created through any interface",
			}),
		responsesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_recorded_total",
				Help:      "responses attached to projects through any interface",
			}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.projectsSubmitted,
		m.responsesRecorded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ProjectSubmitted counts a created project.
func (m *Metrics) ProjectSubmitted() {
	if m == nil {
		return
	}
	m.projectsSubmitted.Inc()
}

// ResponseRecorded counts a created response.
func (m *Metrics) ResponseRecorded() {
	if m == nil {
		return
	}
	m.responsesRecorded.Inc()
}

// TrackProjects exports pnaas_projects_total, read through count on every scrape.
// A failed count reports -1.
func (m *Metrics) TrackProjects(count func(context.Context) (int64, error)) {
	if m == nil || count == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "projects_total",
			Help:      "projects currently stored",
		}, func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
			defer cancel()
			n, err := count(ctx)
			if err != nil {
				return -1
			}
			return float64(n)
		}))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
