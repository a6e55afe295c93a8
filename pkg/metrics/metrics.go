package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokes_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jokes_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jokes_auth_attempts_total",
		Help: "Login and register attempts by outcome",
	}, []string{"action", "result"})

	sessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jokes_sessions_revoked_total",
		Help: "Sessions destroyed because their user could not be loaded",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuthAttempt counts a login or register with its result label
// (success, invalid, rejected, error).
func ObserveAuthAttempt(action, result string) {
	authAttempts.WithLabelValues(action, result).Inc()
}

func ObserveSessionRevoked() {
	sessionsRevoked.Inc()
}
