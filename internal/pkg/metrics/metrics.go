package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paycheck",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paycheck",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paycheck",
			Subsystem: "recordstore",
			Name:      "query_duration_seconds",
			Help:      "Duration of record store statements.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"table", "operation", "success"},
	)

	payrollCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paycheck",
			Subsystem: "payroll",
			Name:      "commits_total",
			Help:      "Payroll persistence attempts by operation and result.",
		},
		[]string{"operation", "result"},
	)

	payrollLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "paycheck",
			Subsystem: "payroll",
			Name:      "detail_lines_total",
			Help:      "Payroll detail lines written by committed transactions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		queryDuration,
		payrollCommits,
		payrollLines,
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency labelled by chi route pattern.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveQuery records one record store statement.
func ObserveQuery(table, operation string, started time.Time, err error) {
	queryDuration.WithLabelValues(table, operation, strconv.FormatBool(err == nil)).
		Observe(time.Since(started).Seconds())
}

// RecordPayrollCommit counts a persister outcome; lines is only added on success.
func RecordPayrollCommit(operation string, lines int, err error) {
	result := "committed"
	if err != nil {
		result = "aborted"
	}
	payrollCommits.WithLabelValues(operation, result).Inc()
	if err == nil && lines > 0 {
		payrollLines.Add(float64(lines))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
