package middleware

import (
	"strconv"
	"time"

	"senpai_store/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counters and latency histograms.
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
