// Package metrics exposes Prometheus instrumentation for the site.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Manager owns a private registry and every collector on it.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	uiEvents            *prometheus.CounterVec
	contactSubmissions  *prometheus.CounterVec
	mountedViews        prometheus.Gauge
}

// Option configures a Manager.
type Option func(*Manager)

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// New builds a Manager on a fresh registry, so tests and multiple servers
// in one process never collide.
func New(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	m := &Manager{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		uiEvents: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "events_total",
			Help:      "UI events received from live views, by kind.",
		}, []string{"kind"}),
		contactSubmissions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		mountedViews: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "mounted",
			Help:      "Live views currently mounted.",
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvent counts one UI event.
func (m *Manager) ObserveEvent(kind string) {
	m.uiEvents.WithLabelValues(kind).Inc()
}

// ObserveContact counts one submission outcome: sent, invalid, unavailable
// or failed.
func (m *Manager) ObserveContact(outcome string) {
	m.contactSubmissions.WithLabelValues(outcome).Inc()
}

// ViewMounted and ViewUnmounted track the live view gauge.
func (m *Manager) ViewMounted()   { m.mountedViews.Inc() }
func (m *Manager) ViewUnmounted() { m.mountedViews.Dec() }

// Middleware records request counts and latency keyed by the matched route.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
