package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "elms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elms_notifications_dispatched_total",
			Help: "Notifications accepted by the dispatch endpoint, by type",
		},
		[]string{"type"},
	)
	feedConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "elms_feed_connections",
			Help: "Open SSE feed connections",
		},
	)
)

// PrometheusMiddleware records request duration.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordNotificationDispatched counts a dispatched notification.
func RecordNotificationDispatched(typ string) {
	notificationsDispatched.WithLabelValues(typ).Inc()
}

// FeedConnectionOpened bumps the SSE gauge; the returned func closes it.
func FeedConnectionOpened() func() {
	feedConnections.Inc()
	return feedConnections.Dec
}
