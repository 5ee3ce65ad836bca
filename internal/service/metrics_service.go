package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and announcement delivery.
type MetricsService struct {
	registry              *prometheus.Registry
	handler               http.Handler
	requestDuration       *prometheus.HistogramVec
	requestTotal          *prometheus.CounterVec
	deliveryCycles        *prometheus.CounterVec
	announcementsShown    prometheus.Counter
	registryWriteFailures *prometheus.CounterVec
	activeSessions        prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	deliveryCycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "announcement_delivery_cycles_total",
		Help: "Delivery cycles run on classroom entry, by outcome",
	}, []string{"outcome"})

	announcementsShown := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "announcements_presented_total",
		Help: "Announcements selected for presentation",
	})

	registryWriteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "announcement_registry_write_failures_total",
		Help: "Failed writes of seen announcement registries, by scope",
	}, []string{"scope"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "announcement_active_sessions",
		Help: "Viewer sessions holding a delivery engine in memory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, deliveryCycles, announcementsShown, registryWriteFailures, activeSessions, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:              registry,
		handler:               handler,
		requestDuration:       requestDuration,
		requestTotal:          requestTotal,
		deliveryCycles:        deliveryCycles,
		announcementsShown:    announcementsShown,
		registryWriteFailures: registryWriteFailures,
		activeSessions:        activeSessions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying Prometheus registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDeliveryCycle counts a finished delivery cycle.
func (m *MetricsService) ObserveDeliveryCycle(outcome string, shown int) {
	if m == nil {
		return
	}
	m.deliveryCycles.WithLabelValues(outcome).Inc()
	if shown > 0 {
		m.announcementsShown.Add(float64(shown))
	}
}

// RecordRegistryWriteFailure counts a seen registry that could not be persisted.
func (m *MetricsService) RecordRegistryWriteFailure(scope string) {
	if m == nil {
		return
	}
	m.registryWriteFailures.WithLabelValues(scope).Inc()
}

// SetActiveSessions reports how many sessions currently hold an engine.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
