package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conflict check outcomes recorded in metrics.
const (
	CheckResultClean      = "clean"
	CheckResultConflicted = "conflicted"
	CheckResultFailed     = "failed"
)

// MetricsService encapsulates Prometheus instrumentation for the engine.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	timetableImports *prometheus.CounterVec
	conflictChecks   *prometheus.CounterVec
	conflictDuration prometheus.Observer
}

// NewMetricsService registers the collectors.
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

	timetableImports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_imports_total",
		Help: "Total timetable import attempts",
	}, []string{"status"})

	conflictChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_checks_total",
		Help: "Total substitute conflict checks",
	}, []string{"result"})

	conflictDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conflict_check_duration_seconds",
		Help:    "Duration of substitute conflict checks",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, timetableImports, conflictChecks, conflictDuration, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		timetableImports: timetableImports,
		conflictChecks:   conflictChecks,
		conflictDuration: conflictDuration,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordImport counts one timetable import attempt.
func (m *MetricsService) RecordImport(ok bool) {
	if m == nil {
		return
	}
	status := "accepted"
	if !ok {
		status = "rejected"
	}
	m.timetableImports.WithLabelValues(status).Inc()
}

// ObserveConflictCheck counts one conflict check and its duration.
func (m *MetricsService) ObserveConflictCheck(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.conflictChecks.WithLabelValues(result).Inc()
	m.conflictDuration.Observe(duration.Seconds())
}
