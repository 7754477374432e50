package middleware

import (
	"time"

	"github.com/NomadCrew/todo-api/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request. Failed requests are
// logged by ErrorHandler as well, with the error attached.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(logger.RequestIDKey),
			"bytes", c.Writer.Size(),
		}

		log := logger.GetLogger()
		switch {
		case status >= 500:
			log.Errorw("Request completed", fields...)
		case status >= 400:
			log.Warnw("Request completed", fields...)
		default:
			log.Infow("Request completed", fields...)
		}
	}
}
