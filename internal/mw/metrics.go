package mw

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"designer-dashboard-backend/internal/metrics"
)

// Metrics records request counts and latency, labelled by route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
