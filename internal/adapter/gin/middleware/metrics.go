package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"puser-service/pkg/metrics"
)

// Metrics records request count and latency. Paths are the route templates,
// so unmatched requests share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
