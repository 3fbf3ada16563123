// Package monitoring exposes Prometheus metrics for the review platform.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Review metrics
	ReviewsSubmitted *prometheus.CounterVec
	ReviewRedirects  prometheus.Counter

	// Feedback metrics
	FeedbackSubmitted prometheus.Counter

	// Rating recompute metrics
	RecomputeFailures prometheus.Counter
	ReconcileRuns     prometheus.Counter

	// Notification metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

var metrics *Metrics

// Init initializes all Prometheus metrics
func Init() *Metrics {
	if metrics != nil {
		return metrics
	}

	metrics = &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ReviewsSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviews_submitted_total",
				Help: "Total number of reviews submitted",
			},
			[]string{"rating", "anonymous"},
		),
		ReviewRedirects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "review_redirects_total",
				Help: "Total number of reviews redirected to the external review site",
			},
		),

		FeedbackSubmitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "feedback_submitted_total",
				Help: "Total number of feedback forms submitted",
			},
		),

		RecomputeFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rating_recompute_failures_total",
				Help: "Total number of failed aggregate rating recomputes",
			},
		),
		ReconcileRuns: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rating_reconcile_runs_total",
				Help: "Total number of rating reconciliation sweeps",
			},
		),

		NotificationsSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Total number of review notification emails sent",
			},
		),
		NotificationsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_failed_total",
				Help: "Total number of review notification emails that failed to send",
			},
		),

		RateLimitHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
		),
	}

	return metrics
}

// Get returns the global metrics instance
func Get() *Metrics {
	if metrics == nil {
		return Init()
	}
	return metrics
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinHandler returns a Gin-compatible handler for Prometheus metrics
func GinHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// MetricsMiddleware is a Gin middleware for collecting HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	m := Get()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// RecordReviewSubmitted records a review submission
func RecordReviewSubmitted(rating int, anonymous bool) {
	Get().ReviewsSubmitted.WithLabelValues(strconv.Itoa(rating), strconv.FormatBool(anonymous)).Inc()
}

// RecordReviewRedirect records a redirect to the external review site
func RecordReviewRedirect() {
	Get().ReviewRedirects.Inc()
}

// RecordFeedbackSubmitted records a feedback form submission
func RecordFeedbackSubmitted() {
	Get().FeedbackSubmitted.Inc()
}

// RecordRecomputeFailure records a failed aggregate rating recompute
func RecordRecomputeFailure() {
	Get().RecomputeFailures.Inc()
}

// RecordReconcileRun records a rating reconciliation sweep
func RecordReconcileRun() {
	Get().ReconcileRuns.Inc()
}

// RecordNotificationSent records a sent review notification email
func RecordNotificationSent() {
	Get().NotificationsSent.Inc()
}

// RecordNotificationFailed records a failed review notification email
func RecordNotificationFailed() {
	Get().NotificationsFailed.Inc()
}

// RecordRateLimitHit records a rate limit hit
func RecordRateLimitHit() {
	Get().RateLimitHits.Inc()
}
