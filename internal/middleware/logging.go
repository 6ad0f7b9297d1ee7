package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// SlowRequest is the latency above which a request is logged at Warn.
const SlowRequest = 200 * time.Millisecond

// RequestLogger logs one line per request. Errors attached with c.Error
// are included.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request", attrs...)
		case latency > SlowRequest:
			log.Warn("slow request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
