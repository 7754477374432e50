package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NomadCrew/todo-api/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		seen = c.GetString(logger.RequestIDKey)
		c.Status(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		header := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
		assert.Equal(t, header, seen)
	})

	t.Run("keeps an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "upstream-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "upstream-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "upstream-123", seen)
	})

	rejected := map[string]string{
		"log injection": "abc\nlevel=error msg=forged",
		"markup":        "<script>alert(1)</script>",
		"too long":      strings.Repeat("a", maxRequestIDLength+1),
	}
	for name, incoming := range rejected {
		t.Run("replaces "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header["X-Request-Id"] = []string{incoming}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			header := w.Header().Get("X-Request-ID")
			assert.NotEqual(t, incoming, header)
			_, err := uuid.Parse(header)
			assert.NoError(t, err)
			assert.Equal(t, header, seen)
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.True(t, validRequestID("lb.trace_1:2"))
	assert.True(t, validRequestID(strings.Repeat("a", maxRequestIDLength)))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("has space"))
	assert.False(t, validRequestID("ünïcode"))
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, status := range map[string]int{"/ok": http.StatusOK, "/fail": http.StatusInternalServerError, "/missing": http.StatusNotFound} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}
