package middleware

import (
	"context"
	"time"

	"github.com/NomadCrew/todo-api/errors"
	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware bounds the request context. Store calls observe the
// deadline; if the handler returns after it passed without writing anything,
// a 504 is reported.
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() && len(c.Errors) == 0 {
			_ = c.Error(errors.Timeout("request timed out"))
		}
	}
}
