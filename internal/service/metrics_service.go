package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for the API.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	matchRunDuration prometheus.Histogram
	matchRunTotal    *prometheus.CounterVec
	matchesCreated   prometheus.Counter
	submissionsTotal *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
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

	matchRunDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_run_duration_seconds",
		Help:    "Duration of terminal match batch runs",
		Buckets: prometheus.DefBuckets,
	})

	matchRunTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_runs_total",
		Help: "Total number of match batch runs",
	}, []string{"replayed"})

	matchesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_created_total",
		Help: "Total number of match records created",
	})

	submissionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "selection_submissions_total",
		Help: "Total accepted selection submissions",
	}, []string{"ledger"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, matchRunDuration, matchRunTotal, matchesCreated, submissionsTotal, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		matchRunDuration: matchRunDuration,
		matchRunTotal:    matchRunTotal,
		matchesCreated:   matchesCreated,
		submissionsTotal: submissionsTotal,
	}
}

// Handler serves the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveMatchRun records one batch run.
func (s *MetricsService) ObserveMatchRun(duration time.Duration, created int, replayed bool) {
	s.matchRunDuration.Observe(duration.Seconds())
	s.matchRunTotal.WithLabelValues(strconv.FormatBool(replayed)).Inc()
	if !replayed {
		s.matchesCreated.Add(float64(created))
	}
}

// ObserveSubmission records one accepted ledger write.
func (s *MetricsService) ObserveSubmission(ledger string) {
	s.submissionsTotal.WithLabelValues(ledger).Inc()
}
