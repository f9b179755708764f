// Package metrics defines the Prometheus collectors the server exports on
// /metrics. All recording methods are safe to call on a nil *Metrics, which
// records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "magicshop"

// Metrics owns a private registry and the application's collectors.
type Metrics struct {
	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	restocks           *prometheus.CounterVec
	subscribers        prometheus.Gauge
	listenerReconnects prometheus.Counter
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		restocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restocks_total",
			Help:      "Display surfaces restocked, by surface.",
		}, []string{"surface"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "subscribers",
			Help:      "Open realtime subscriptions.",
		}),
		listenerReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listener",
			Name:      "reconnects_total",
			Help:      "Change listener reconnection attempts.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.restocks,
		m.subscribers,
		m.listenerReconnects,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one completed HTTP request. route is the matched
// route pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RestockRecorded counts a restock of surface.
func (m *Metrics) RestockRecorded(surface string) {
	if m == nil {
		return
	}
	m.restocks.WithLabelValues(surface).Inc()
}

// SubscriberAdded increments the open subscription gauge.
func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

// SubscriberRemoved decrements the open subscription gauge.
func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

// ListenerReconnected counts a change listener reconnection attempt.
func (m *Metrics) ListenerReconnected() {
	if m == nil {
		return
	}
	m.listenerReconnects.Inc()
}
