package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/pkg/logger"
)

// Recovery turns a panic into a 500 and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(fmt.Errorf("panic: %v", rec), "request panic recovered",
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", RequestIDFrom(c),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status":   "error",
					"message":  "internal server error",
					"trace_id": RequestIDFrom(c),
				})
			}
		}()
		c.Next()
	}
}
