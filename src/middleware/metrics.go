package middleware

import (
	"strconv"

	"github.com/convocatorias/convocatorias-backend/src/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics counts requests by matched route so path parameters do not
// explode the label set.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}
