package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

type Collector struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func New() *Collector {
	return &Collector{}
}

// Wrap must run inside the chi router so the matched route pattern is
// available once the handler returns.
func (c *Collector) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.AuthRequestsInFlight.Inc()
		defer metrics.AuthRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := RouteLabel(r)
		statusClass := fmt.Sprintf("%dxx", rec.status/100)

		metrics.AuthRequestsTotal.WithLabelValues(r.Method, path).Inc()
		metrics.AuthRequestDurationSeconds.WithLabelValues(r.Method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}

// RouteLabel prefers the chi route pattern and falls back to a normalized
// path for unmatched requests, keeping label cardinality bounded.
func RouteLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return NormalizePath(r.URL.Path)
}
