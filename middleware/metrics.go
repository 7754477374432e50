package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Singleton so that building several routers (tests) does not register twice.
var (
	httpMetricsInstance *httpMetrics
	httpMetricsOnce     sync.Once
	httpMetricsRegistry = prometheus.DefaultRegisterer
)

func newHTTPMetrics() *httpMetrics {
	httpMetricsOnce.Do(func() {
		factory := promauto.With(httpMetricsRegistry)
		httpMetricsInstance = &httpMetrics{
			requests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "todo_api_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			}, []string{"method", "route", "status"}),
			duration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "todo_api_http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			}, []string{"method", "route"}),
			inFlight: factory.NewGauge(prometheus.GaugeOpts{
				Name: "todo_api_http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			}),
		}
	})
	return httpMetricsInstance
}

// resetHTTPMetricsForTesting points the metrics at a fresh registry.
func resetHTTPMetricsForTesting() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	httpMetricsRegistry = reg
	httpMetricsInstance = nil
	httpMetricsOnce = sync.Once{}
	return reg
}

// MetricsMiddleware records request counts and latencies labelled by the
// matched route template, so ids do not explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	m := newHTTPMetrics()

	return func(c *gin.Context) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
