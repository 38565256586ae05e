package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request. Errors attached with c.Error by
// handlers are logged with it, since clients only see a generic message.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})

		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("request failed")
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
