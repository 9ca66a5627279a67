package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// CategorySyncTotal counts pivot edits applied by the category synchronizer, by op (attach, detach).
	CategorySyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_sync_operations_total",
			Help: "Total number of pivot rows attached or detached by category synchronization",
		},
		[]string{"op"},
	)

	// SessionsActive is the number of live web sessions (in-memory).
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "web_sessions_active",
			Help: "Number of active web sessions",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, CategorySyncTotal, SessionsActive)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/pets/123 -> /api/pets/{id}, /api/users/45 -> /api/users/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// AddCategorySync adds n to the synchronizer counter for the given op (attach, detach).
func AddCategorySync(op string, n int) {
	if n > 0 {
		CategorySyncTotal.WithLabelValues(op).Add(float64(n))
	}
}

// IncSessionsActive increments the active web session gauge (call on login).
func IncSessionsActive() {
	SessionsActive.Inc()
}

// DecSessionsActive decrements the active web session gauge (call on logout or expiry).
func DecSessionsActive() {
	SessionsActive.Dec()
}
