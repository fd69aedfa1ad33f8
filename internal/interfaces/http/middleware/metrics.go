package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count, latency and in-flight requests.
// Routes are labelled by their pattern (c.FullPath) to bound cardinality.
// A nil metrics makes this a pass-through.
func HTTPMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		done := metrics.RequestStarted()

		c.Next()

		done()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// HTTPMetricsStatusGroup groups status codes by class for dashboards
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
