package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivewatch_http_requests_total",
		Help: "HTTP requests served by the dashboard API.",
	}, []string{"path", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hivewatch_http_request_duration_seconds",
		Help:    "Dashboard API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	thresholdUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivewatch_threshold_updates_total",
		Help: "Accepted threshold edits per metric.",
	}, []string{"metric"})
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request counts and latency per route.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		// Websocket upgrades need the raw ResponseWriter (Hijacker).
		if path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		requestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
