package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
)

// PrometheusMiddleware Prometheus监控中间件，route 使用路由模板避免标签膨胀.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		// 执行下一个中间件/处理器
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		// 记录请求计数
		metrics.RequestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()

		// 记录请求持续时间
		metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
