package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusops/enrollments-api/internal/service"
)

// Metrics records per-request duration and count. The metrics and health
// endpoints are excluded so scrapes do not inflate the series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if metricsSvc == nil || path == "/metrics" || path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
