package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/pkg/logger"
)

// Logger logs one line per request. Probe and scrape paths log at debug.
func Logger(log *logger.Logger, quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", RequestIDFrom(c),
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}

		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			log.Error(err, "server error", fields...)
		case status >= 400:
			log.Warn("client error", fields...)
		case quiet[path]:
			log.Debug("request processed", fields...)
		default:
			log.Info("request processed", fields...)
		}
	}
}
