package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"taxi24/internal/logger"
	"taxi24/internal/metrics"
)

// Logging logs the start and end of every request.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		log.Debug(ctx, "started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote", c.ClientIP(),
		)

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		}
		if c.Writer.Status() >= 500 {
			log.Warn(ctx, "completed", args...)
			return
		}
		log.Info(ctx, "completed", args...)
	}
}

// Metrics records Prometheus request metrics labelled by route template.
func Metrics(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.WithLabelValues(service).Inc()
		defer metrics.HTTPRequestsInFlight.WithLabelValues(service).Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(service, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
