package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService registers and exposes the application's Prometheus
// collectors.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	meetingsCreated   prometheus.Counter
	bookingRejections prometheus.Counter
	exportJobs        *prometheus.CounterVec
}

// NewMetricsService builds the collector set on a private registry so
// tests can instantiate it repeatedly.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	s := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		meetingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meetings_created_total",
			Help: "Total number of meetings booked.",
		}),
		bookingRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_policy_rejections_total",
			Help: "Total number of bookings rejected by area policy.",
		}),
		exportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "export_jobs_total",
			Help: "Total number of day-sheet export jobs by outcome.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		s.httpRequests,
		s.httpDuration,
		s.meetingsCreated,
		s.bookingRejections,
		s.exportJobs,
	)
	return s
}

// Registry exposes the underlying registry for the /metrics handler.
func (s *MetricsService) Registry() *prometheus.Registry {
	return s.registry
}

// ObserveRequest records an HTTP request outcome.
func (s *MetricsService) ObserveRequest(method, path string, status int, duration time.Duration) {
	s.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// MeetingCreated increments the booking counter.
func (s *MetricsService) MeetingCreated() {
	s.meetingsCreated.Inc()
}

// BookingRejected increments the policy rejection counter.
func (s *MetricsService) BookingRejected() {
	s.bookingRejections.Inc()
}

// ExportJobFinished records an export job outcome.
func (s *MetricsService) ExportJobFinished(status string) {
	s.exportJobs.WithLabelValues(status).Inc()
}
