package middleware

import (
	"net/http"
	"time"

	"github.com/pawbase/pawbase/internal/metrics"
)

// Prometheus records duration and count for each request. Mount it after
// recovery and request ID so the metrics reflect what the client saw. The
// scrape endpoint itself is excluded.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		if r.URL.Path == "/metrics" {
			return
		}
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(r.Method, path, sw.status, time.Since(start).Seconds())
	})
}
