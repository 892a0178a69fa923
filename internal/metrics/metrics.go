// Package metrics exposes Prometheus collectors for the portfolio site.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	pageRendersTotal           *prometheus.CounterVec
	revealTargetsRendered      *prometheus.HistogramVec
	revealBeaconsTotal         *prometheus.CounterVec
	visitorsTrackedTotal       prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		)

		pageRendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_page_renders_total",
				Help: "Total number of page or fragment renders, labeled by theme and section.",
			},
			[]string{"theme", "section"},
		)

		revealTargetsRendered = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_reveal_targets_rendered",
				Help:    "Number of reveal targets mounted per render, labeled by theme.",
				Buckets: []float64{1, 5, 10, 20, 40, 80},
			},
			[]string{"theme"},
		)

		revealBeaconsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_reveal_beacons_total",
				Help: "Total number of reveal beacons received, labeled by section.",
			},
			[]string{"section"},
		)

		visitorsTrackedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_visitors_tracked_total",
				Help: "Total number of page visits recorded by the analytics store.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware is a gin middleware that records HTTP request metrics.
func Middleware() gin.HandlerFunc {
	Init()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRender records a render of a page or section fragment and how many
// reveal targets it mounted.
func ObserveRender(theme, section string, targets int) {
	pageRendersTotal.WithLabelValues(theme, section).Inc()
	revealTargetsRendered.WithLabelValues(theme).Observe(float64(targets))
}

// ObserveRevealBeacon counts a reveal reported by a browser.
func ObserveRevealBeacon(section string) {
	revealBeaconsTotal.WithLabelValues(section).Inc()
}

// ObserveVisitor counts a recorded visit.
func ObserveVisitor() {
	visitorsTrackedTotal.Inc()
}
