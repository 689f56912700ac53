// Package observability owns the Prometheus registry and the service's custom metrics.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookshop"

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	// Enabled exposes the Prometheus handler on the main HTTP listener
	Enabled bool `env:"ENABLED" default:"true"`
	// Path is the route the handler is mounted on
	Path string `env:"PATH" default:"/metrics"`
}

// Metrics contains the custom Prometheus metrics of the bookshop service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	AuthFailuresTotal  *prometheus.CounterVec
	ReviewUpsertsTotal *prometheus.CounterVec
	RegistrationsTotal *prometheus.CounterVec
}

// NewMetrics creates a private registry with the Go and process collectors and
// registers the service metrics on it.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})) //nolint:exhaustruct

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
		AuthFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total number of rejected authenticated requests by failure kind",
			},
			[]string{"kind"},
		),
		ReviewUpsertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "review_upserts_total",
				Help:      "Total number of review upserts by outcome",
			},
			[]string{"outcome"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of registration attempts by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(m.RequestsTotal, m.AuthFailuresTotal, m.ReviewUpsertsTotal, m.RegistrationsTotal)

	return m
}

// Handler returns the exposition handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct
}

// ObserveRequest counts a finished HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}

	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveAuthFailure counts a request rejected by the authorizing middleware.
func (m *Metrics) ObserveAuthFailure(kind string) {
	if m == nil {
		return
	}

	m.AuthFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveReviewUpsert counts a successful review upsert.
func (m *Metrics) ObserveReviewUpsert(outcome string) {
	if m == nil {
		return
	}

	m.ReviewUpsertsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRegistration counts a registration attempt ("created", "conflict", "invalid", "error").
func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}

	m.RegistrationsTotal.WithLabelValues(result).Inc()
}
