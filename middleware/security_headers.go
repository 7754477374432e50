package middleware

import (
	"strings"

	"github.com/NomadCrew/todo-api/config"
	"github.com/gin-gonic/gin"
)

const hstsValue = "max-age=31536000; includeSubDomains"

var baseSecurityHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
}

// SecurityHeadersMiddleware sets the static security headers on every response.
// Todo API responses are also marked uncacheable so browsers never show a
// stale list after a write.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	apiPrefix := strings.TrimSuffix(cfg.Server.APIPrefix, "/")
	production := cfg.IsProduction()

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range baseSecurityHeaders {
			h.Set(kv[0], kv[1])
		}
		if production {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		if apiPrefix != "" && strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}
