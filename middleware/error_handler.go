package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/NomadCrew/todo-api/errors"
	"github.com/NomadCrew/todo-api/logger"
	"github.com/NomadCrew/todo-api/types"
	"github.com/gin-gonic/gin"
)

const msgInternalServerError = "Internal Server Error"

// ErrorHandler renders the last error pushed with c.Error as
// {"error": "<message>"} with the status the error maps to. Handlers only
// ever push errors; this is the single place responses for failures are
// written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			if appError.Type == errors.RateLimitError && appError.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(appError.RetryAfter))
			}

			c.JSON(statusCode, types.ErrorResponse{Error: appError.Message})
			return
		}

		// Gin binding errors
		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: msgInternalServerError})
	}
}
