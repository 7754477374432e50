package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/todo-api/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(CORSMiddleware(&config.ServerConfig{AllowedOrigins: origins}))
	router.Any("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return router
}

func TestCORSMiddleware(t *testing.T) {
	router := newCORSRouter([]string{"http://localhost:3000", "https://*.example.com"})

	testCases := []struct {
		name           string
		requestOrigin  string
		method         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "allowed origin",
			requestOrigin:  "http://localhost:3000",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:           "wildcard subdomain",
			requestOrigin:  "https://app.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://app.example.com",
		},
		{
			name:           "preflight",
			requestOrigin:  "http://localhost:3000",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:           "disallowed origin",
			requestOrigin:  "http://malicious.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusForbidden,
			expectedOrigin: "",
		},
		{
			name:           "no origin is not a cors request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/test", nil)
			if tc.requestOrigin != "" {
				req.Header.Set("Origin", tc.requestOrigin)
			}
			if tc.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddlewareAllowAll(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}} {
		router := newCORSRouter(origins)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://anywhere.test")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
