package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// Logger returns a middleware that writes one structured access log line
// per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", GetRequestID(c.Request.Context()),
		}

		if c.Writer.Status() >= 500 {
			logger.Errorw("request completed", fields...)
		} else {
			logger.Infow("request completed", fields...)
		}
	}
}
