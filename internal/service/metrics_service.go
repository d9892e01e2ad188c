package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the two remote lookup dependencies, and the enrollment store.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	lookupDuration  *prometheus.HistogramVec
	lookupTotal     *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// NewMetricsService registers the core Prometheus collectors.
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

	lookupDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_lookup_duration_seconds",
		Help:    "Duration of remote course and student lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "outcome"})

	lookupTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_lookups_total",
		Help: "Total remote lookups by service and outcome",
	}, []string{"service", "outcome"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "enrollment_store_duration_seconds",
		Help:    "Duration of enrollment store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(requestDuration, requestTotal, lookupDuration, lookupTotal, storeDuration)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		lookupDuration:  lookupDuration,
		lookupTotal:     lookupTotal,
		storeDuration:   storeDuration,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// ObserveHTTPRequest records a completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveLookup records the outcome of a remote lookup call.
func (s *MetricsService) ObserveLookup(service, outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	s.lookupDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
	s.lookupTotal.WithLabelValues(service, outcome).Inc()
}

// ObserveStore records the duration of an enrollment store operation.
func (s *MetricsService) ObserveStore(operation string, duration time.Duration) {
	if s == nil {
		return
	}
	s.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
