package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-archive-app/pkg/metrics"
)

const unmatchedRoute = "unmatched"

func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		collector.HTTPActiveRequests.Inc()
		defer collector.HTTPActiveRequests.Dec()

		c.Next()

		// Unknown paths share one label to keep cardinality bounded.
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		collector.RecordHTTPRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
