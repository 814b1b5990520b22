package middleware

import (
	"strconv"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics считает запросы и их длительность по шаблону маршрута,
// чтобы short_id не раздувал кардинальность меток
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
