package middleware

import (
	"time"

	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per matched route.
// Unmatched paths share one label to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
