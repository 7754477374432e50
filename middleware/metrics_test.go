package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	resetHTTPMetricsForTesting()

	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/todos/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/todos/1", "/todos/2", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	m := newHTTPMetrics()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/todos/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestMetricsSingleton(t *testing.T) {
	resetHTTPMetricsForTesting()
	assert.Same(t, newHTTPMetrics(), newHTTPMetrics())
	assert.NotPanics(t, func() {
		MetricsMiddleware()
		MetricsMiddleware()
	})
}
